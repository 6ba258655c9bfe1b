package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const authTokenKey = "auth_token"

// AuthToken extracts an optional bearer token from the Authorization header.
// The gateway does not validate it; it is forwarded to the backend catalog
// fetch only, never to vendor APIs.
func AuthToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			c.Set(authTokenKey, token)
		}
		c.Next()
	}
}

// Token returns the bearer token stored by AuthToken, or "".
func Token(c *gin.Context) string {
	return c.GetString(authTokenKey)
}
