package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Header set by the upstream gateway after it verifies the caller's token.
// The core trusts this identity opaquely; token verification is the
// gateway's responsibility.
const userIDHeader = "X-User-ID"

const userIDKey = "user_id"

// AuthRequired rejects requests that arrive without a verified identity
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by AuthRequired
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
