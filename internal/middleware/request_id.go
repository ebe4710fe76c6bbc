package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID tags the request with the caller's X-Request-Id, or a fresh one,
// and stores a logger carrying it in the request context.
func RequestID(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		scoped := log.With().Str(requestIDKey, requestID).Logger()
		c.Request = c.Request.WithContext(scoped.WithContext(c.Request.Context()))

		c.Next()
	}
}

// RequestLogger returns the request-scoped logger set by RequestID, or
// fallback when the middleware did not run.
func RequestLogger(c *gin.Context, fallback zerolog.Logger) *zerolog.Logger {
	if _, ok := c.Get(requestIDKey); ok {
		return zerolog.Ctx(c.Request.Context())
	}
	return &fallback
}
