package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards mutating routes with a shared key. It is deliberately not
// user authentication; the engine treats callers as a trusted presentation
// layer.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" || key != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
