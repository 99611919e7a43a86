package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	usernameKey = "auth.username"
	userIDKey   = "auth.user_id"
)

// Middleware rejects requests without a valid bearer token and stores the
// authenticated username and user id in the gin context.
func Middleware(jwt *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		identity, err := jwt.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(usernameKey, identity.Username)
		c.Set(userIDKey, identity.UserID)
		c.Next()
	}
}

// Username returns the authenticated username, or "" outside of Middleware.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// UserID returns the authenticated account's store id, or "" outside of Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
