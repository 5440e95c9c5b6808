package onboarding

import (
	"time"

	"go-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const completionIdempotencyTTL = 24 * time.Hour

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb redis.Cmdable,
	jwtSecret string,
	logger *zap.Logger,
) {
	public := r.Group("/onboarding")
	public.Use(middleware.ContextLogger(logger))
	{
		public.POST("/verify-token",
			middleware.RateLimitByIP(1, 10),
			handler.VerifyToken,
		)

		public.POST("/complete",
			middleware.RateLimitByIP(0.2, 3),
			middleware.Idempotency(rdb, completionIdempotencyTTL),
			handler.Complete,
		)
	}

	approvals := r.Group("/onboarding")
	approvals.Use(middleware.AuthMiddleware(jwtSecret))
	approvals.Use(middleware.ContextLogger(logger))
	{
		approvals.GET("/approvals",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.ListPending,
		)

		approvals.POST("/approve/:employee_code",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "approval", "approve"),
			handler.Approve,
		)
	}
}
