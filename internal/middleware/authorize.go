package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/models"
	"cscportal/api/internal/security"
)

func RequireRoles(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := security.Authorize(CurrentAdmin(c), roles...)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, models.ErrUnauthenticated):
			abort(c, http.StatusUnauthorized, "Authentication required", "unauthenticated")
		default:
			abort(c, http.StatusForbidden, "Access denied. Insufficient permissions.", "forbidden")
		}
	}
}
