package middleware

import (
	"crypto/subtle"
	"net/http"

	"voicedesk/config"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards operator endpoints with a shared-secret
// header. With no token configured the endpoints are disabled outright.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := config.AppConfig.AdminToken
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
			return
		}
		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
