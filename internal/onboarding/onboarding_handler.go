package onboarding

import (
	"errors"
	"net/http"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// formOverhead leaves room for the text fields next to three documents.
const formOverhead = 1 << 20

var errFormTooLarge = apperror.New(
	apperror.CodeTooLarge,
	"Onboarding form exceeds the upload limit",
	http.StatusRequestEntityTooLarge,
)

type Handler struct {
	service        Service
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(service Service, maxUploadBytes int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("onboarding.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.handler")
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("onboarding request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Complete(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 3*h.maxUploadBytes+formOverhead)

	var req CompleteOnboardingRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeServiceError(c, errFormTooLarge)
			return
		}
		h.logger.Warn("http complete onboarding validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListPending(c *gin.Context) {
	resp, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Approve accepts JSON, urlencoded or multipart bodies.
func (h *Handler) Approve(c *gin.Context) {
	code := c.Param("employee_code")
	actorID := c.GetString("user_id")
	h.logger.Debug("http approve employee",
		zap.String("actor_id", actorID),
		zap.String("employee_code", code),
	)

	var req ApproveRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http approve employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), actorID, code, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Employee approved",
		"employee": resp,
	}, nil)
}
