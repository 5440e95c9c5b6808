package menu

import (
	"net/http"
	"strings"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	items  []Item
	logger *zap.Logger
}

func NewHandler(items []Item, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("menu.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("menu.handler")
	}
	return &Handler{items: items, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	role := c.GetString("role")
	items := VisibleItems(role, h.items)
	h.logger.Debug("http menu", zap.String("role", role), zap.Int("items", len(items)))

	response.Success(c, http.StatusOK, items, nil)
}

type AccessResponse struct {
	Path    string `json:"path"`
	Allowed bool   `json:"allowed"`
}

// Access guards page navigation: 200 when the caller's menu contains path, 403 otherwise.
func (h *Handler) Access(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		h.writeError(c, apperror.RequiredField("Path"))
		return
	}

	role := c.GetString("role")
	if !CanAccess(role, path, h.items) {
		h.logger.Warn("http menu access denied", zap.String("role", role), zap.String("path", path))
		h.writeError(c, apperror.ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, AccessResponse{Path: path, Allowed: true}, nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
