package middleware

import "github.com/gin-gonic/gin"

// abort ends the request with the same envelope the handlers use.
func abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"code":    code,
	})
}
