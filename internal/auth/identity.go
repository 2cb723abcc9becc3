package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserChecker verifies that an identity delivered by the upstream auth layer
// still exists.
type UserChecker interface {
	Exists(ctx context.Context, publicID string) (bool, error)
}

// WithUser reads the already-authenticated identity from the X-User-Id header
// and stores it in the request context. Authentication itself happens
// upstream; the ledger only refuses identities it has never seen.
func WithUser(users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing user identity"})
			return
		}

		ok, err := users.Exists(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "identity lookup failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unknown user"})
			return
		}

		c.Set("user_id", uid)
		c.Next()
	}
}
