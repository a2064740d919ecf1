package pkg

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP prefers proxy headers so rate limiting and cache keys
// survive a load balancer in front of the API.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}
