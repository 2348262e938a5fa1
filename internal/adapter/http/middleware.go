package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// Auth returns a middleware that validates the static API token carried in
// the Authorization header. If the token is missing or invalid, the request
// is rejected with 401.
func Auth(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		if token != validToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// RequireUser returns a middleware that extracts the caller's opaque user
// identifier from the X-User-Id header and stores it in the request context.
// Requests without one are rejected with 400.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-User-Id header"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// userID returns the user identifier stored by RequireUser
func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
