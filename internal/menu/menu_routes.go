package menu

import (
	"go-hrm/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, jwtSecret string) {
	r.GET("/menu",
		middleware.AuthMiddleware(jwtSecret),
		middleware.RBACAuthorize(rbacService, "menu", "read"),
		handler.List,
	)
	r.GET("/menu/access",
		middleware.AuthMiddleware(jwtSecret),
		middleware.RBACAuthorize(rbacService, "menu", "read"),
		handler.Access,
	)
}
