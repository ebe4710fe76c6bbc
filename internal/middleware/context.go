package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// contextWithTimeout detaches from the request context, which may already be
// cancelled once the response is written.
func contextWithTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), d)
}
