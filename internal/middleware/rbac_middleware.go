package middleware

import (
	"go-hrm/internal/domain"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by anything that can decide an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWith(c, err)
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ApiEnvelope{
				Ok: false,
				Error: &response.ErrorBody{
					Code:    apperror.ErrForbidden.Code,
					Message: apperror.ErrForbidden.Message,
					Details: gin.H{"required": resource + ":" + action},
				},
			})
			return
		}
		c.Next()
	}
}
