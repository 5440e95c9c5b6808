package invitation

import (
	"go-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
	logger *zap.Logger,
) {
	onboarding := r.Group("/onboarding")
	onboarding.Use(middleware.AuthMiddleware(jwtSecret))
	onboarding.Use(middleware.ContextLogger(logger))
	{
		onboarding.POST("/invite",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "invitation", "create"),
			handler.Create,
		)

		onboarding.GET("/invites",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "invitation", "read"),
			handler.List,
		)

		onboarding.DELETE("/invite/:id",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "invitation", "revoke"),
			handler.Revoke,
		)
	}
}
