package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "auth.user_id"

// Middleware resolves the caller from the Authorization header. Requests without a header
// pass through anonymously; the services decide whether identity is required. A header
// that is present but invalid is rejected.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "malformed authorization header"})
			return
		}

		userID, err := v.Verify(token)
		if err != nil {
			zap.S().Named("auth").Debugw("rejected token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication failed"})
			return
		}

		SetUserID(c, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
