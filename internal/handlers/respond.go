package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/models"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// fail is the one place a service error becomes an HTTP response. Dependency
// failures are logged with their cause; the cause is echoed to the caller
// only outside production.
func (h HandlerSet) fail(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		middleware.RequestLogger(c, h.log).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		if !h.cfg.IsProduction() {
			body.Error = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, envelope) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, envelope{Message: "Validation failed", Code: "validation_error", Fields: verr.Fields}
	case errors.Is(err, models.ErrEmptyPayload):
		return http.StatusBadRequest, envelope{Message: "No files uploaded", Code: "empty_payload"}
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, envelope{Message: "Invalid credentials", Code: "invalid_credentials"}
	case errors.Is(err, models.ErrAccountDeactivated):
		return http.StatusUnauthorized, envelope{Message: "Account is deactivated", Code: "account_deactivated"}
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized, envelope{Message: "Token is not valid", Code: "invalid_token"}
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, envelope{Message: "Authentication required", Code: "unauthenticated"}
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, envelope{Message: "Access denied. Insufficient permissions.", Code: "forbidden"}
	case errors.Is(err, models.ErrSetupClosed):
		return http.StatusForbidden, envelope{Message: "Registration is closed", Code: "setup_closed"}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, envelope{Message: err.Error(), Code: "not_found"}
	case errors.Is(err, models.ErrDuplicateIdentity):
		return http.StatusConflict, envelope{Message: err.Error(), Code: "duplicate"}
	default:
		return http.StatusInternalServerError, envelope{Message: "Server error", Code: "internal_error"}
	}
}

func invalid(field, reason string) error {
	return &models.ValidationError{Fields: map[string]string{field: reason}}
}

// list keeps empty collections encoded as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
