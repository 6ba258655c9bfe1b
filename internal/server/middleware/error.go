package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/pkg/api"
)

// ErrorHandler converts errors attached by handlers into JSON responses.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Log != nil {
				logger.Error("Request failed",
					zap.Int("status", apiErr.Code),
					zap.String("path", c.Request.URL.Path),
					zap.Error(apiErr.Log),
				)
			}
			c.JSON(apiErr.Code, apiErr.Body())
			c.Abort()
			return
		}

		logger.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An unexpected error occurred.",
		})
		c.Abort()
	}
}
