package auth

import (
	"chirper/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid. Used on public listing
// routes so responses can still carry viewer-relative flags when a token is sent.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := splitBearer(authHeader)
			if parts != "" {
				if userID, err := jwt.ParseToken(parts); err == nil {
					c.Set("userID", userID)
				}
			}
		}
		c.Next()
	}
}

func splitBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
