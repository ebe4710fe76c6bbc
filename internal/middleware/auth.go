package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/models"
)

const currentAdminKey = "current_admin"

// TokenValidator resolves a bearer token to a live administrator.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (models.Administrator, error)
}

// Auth requires a valid bearer token.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, true)
}

// OptionalAuth resolves a bearer token when one is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, false)
}

func authenticate(validator TokenValidator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				abort(c, http.StatusUnauthorized, "No token, authorization denied", "missing_token")
				return
			}
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Token is not valid", "invalid_token")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		admin, err := validator.Validate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, models.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "Token is not valid", "invalid_token")
				return
			}
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "Server error", "internal_error")
			return
		}

		c.Set(currentAdminKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the administrator set by Auth, or nil.
func CurrentAdmin(c *gin.Context) *models.Administrator {
	v, ok := c.Get(currentAdminKey)
	if !ok {
		return nil
	}
	admin, ok := v.(models.Administrator)
	if !ok {
		return nil
	}
	return &admin
}
