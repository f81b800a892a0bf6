package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/ratelimit"
)

// RateLimit throttles requests per client IP. Applied to the
// unauthenticated auth and invite-validation endpoints, which are the only
// surface reachable without a session token.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
