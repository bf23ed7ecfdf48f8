package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/pkg/api"
)

// Auth checks for a valid Bearer token in the Authorization header against
// the configured static keys. With no keys configured every request passes.
func Auth(staticKeys []string) gin.HandlerFunc {
	keys := make([][]byte, 0, len(staticKeys))
	for _, k := range staticKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(api.UnauthorizedError("Missing Authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(api.UnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		token := []byte(parts[1])
		for _, k := range keys {
			if subtle.ConstantTimeCompare(token, k) == 1 {
				c.Next()
				return
			}
		}

		_ = c.Error(api.UnauthorizedError("Invalid API Key"))
		c.Abort()
	}
}
