package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireTrust runs after Auth and admits the request only if the trust
// snapshot in the session token meets the minimum. The check is O(1) and
// reads no ledger state; the snapshot is stale until re-authentication, and
// the mutating usecases re-read live trust before acting, so a stale token
// can under-admit here but never over-admit the mutation itself.
func RequireTrust(minimum int) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := c.GetInt("trust")
		if current < minimum {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient trust score",
				"required": minimum,
				"current":  current,
			})
			return
		}
		c.Next()
	}
}
