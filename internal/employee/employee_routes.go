package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(jwtSecret))
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.List,
		)

		employees.GET("/managers",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.Managers,
		)
	}

	employee := r.Group("/employee")
	employee.Use(middleware.AuthMiddleware(jwtSecret))
	employee.Use(middleware.ContextLogger(logger))
	{
		employee.GET("/:employee_code",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetByCode,
		)

		employee.PATCH("/:employee_code/contact",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "employee", "update_contact"),
			handler.UpdateContact,
		)

		employee.POST("/:employee_code/offboard",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "employee", "offboard"),
			handler.Offboard,
		)
	}
}
