package employee

import (
	"net/http"
	"strconv"
	"strings"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID:       c.GetString("user_id"),
		EmployeeCode: c.GetString("employee_code"),
		Role:         c.GetString("role"),
	}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := ListFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		Role:     strings.TrimSpace(c.Query("role")),
		SortBy:   strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name"))),
		SortDir:  strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc"))),
		Page:     page,
		PageSize: pageSize,
	}
	h.logger.Debug("http list employees", zap.Any("filter", filter))

	resp, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Managers(c *gin.Context) {
	resp, err := h.service.Managers(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByCode(c *gin.Context) {
	code := c.Param("employee_code")
	h.logger.Debug("http get employee", zap.String("employee_code", code))

	resp, err := h.service.GetByCode(c.Request.Context(), actorFrom(c), code)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Offboard accepts JSON or form bodies.
func (h *Handler) Offboard(c *gin.Context) {
	code := c.Param("employee_code")
	actorID := c.GetString("user_id")
	h.logger.Debug("http offboard employee",
		zap.String("actor_id", actorID),
		zap.String("employee_code", code),
	)

	var req OffboardRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http offboard employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Offboard(c.Request.Context(), actorID, code, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Employee offboarded",
		"employee": resp,
	}, nil)
}

func (h *Handler) UpdateContact(c *gin.Context) {
	code := c.Param("employee_code")

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update contact validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateContact(c.Request.Context(), actorFrom(c), code, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

