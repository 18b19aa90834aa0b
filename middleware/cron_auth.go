package middleware

import (
	"net/http"
	"strings"

	"github.com/bobibcgroup/safespace/config"

	"github.com/gin-gonic/gin"
)

// CronAuthMiddleware guards the schedule sweep endpoint with the shared
// secret handed to the external cron trigger.
func CronAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: 'Bearer CRON_SECRET'"})
			c.Abort()
			return
		}

		expected := config.AppCfg.CronSecret
		if expected == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cron secret not configured"})
			c.Abort()
			return
		}

		if parts[1] != expected {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron secret"})
			c.Abort()
			return
		}

		c.Next()
	}
}
