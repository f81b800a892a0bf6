package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/token"
)

const errUnauthorized = "Unauthorized"

// Auth validates the Bearer session token and sets "userID" and "trust" in
// the gin context. The trust value is the snapshot embedded at issue time;
// see RequireTrust for how it gates routes.
func Auth(sessions *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := sessions.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("trust", claims.Trust)
		c.Next()
	}
}
