package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer session token and puts the caller's
// identity in the Gin context for handlers to use
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if session.IsExpired() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		c.Set("account_id", session.AccountID)
		c.Set("username", session.Username)
		c.Set("email", session.Email)
		c.Set("role", session.Role)
		c.Set("session_token", session.Token)

		c.Next()
	}
}
