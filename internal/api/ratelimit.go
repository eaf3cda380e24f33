package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"golang.org/x/time/rate"
)

// RateLimit allows perMinute requests per minute across all clients, with a
// burst of the same size. perMinute <= 0 disables the limit.
func RateLimit(perMinute int, log logger.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.Warn("Rate limit exceeded",
				logger.String("path", c.Request.URL.Path),
				logger.String("client_ip", c.ClientIP()),
			)
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"details": "report generation is rate limited",
			})
			return
		}
		c.Next()
	}
}
