package rbac

import (
	"go-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	access := r.Group("/access")
	access.Use(middleware.AuthMiddleware(jwtSecret))
	{
		access.POST("/check", middleware.RateLimitByUser(5, 20), handler.Check)
		access.GET("/permissions", middleware.RateLimitByUser(2, 5), handler.Permissions)
	}
}
