package middleware

import (
	"github.com/gin-gonic/gin"
	"social_network/pkg/errors"
	"social_network/pkg/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		statusCode := errors.HTTPStatusFromError(err.Err)
		if statusCode >= 500 {
			log.Error("Request failed", "error", err.Err, "path", c.Request.URL.Path)
		}

		c.JSON(statusCode, gin.H{
			"error": errors.PublicMessage(err.Err),
		})
	}
}
