package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"farmify/utils"
)

// Context keys set by Middleware for downstream handlers.
const (
	CtxUserID      = "user_id"
	CtxAccountType = "account_type"
)

// Middleware validates the bearer session token on every request of the
// group and exposes the caller's identity on the gin context.
func Middleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("missing bearer token"), "authentication required")
			c.Abort()
			return
		}

		claims, err := issuer.Verify(tokenStr)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("invalid or expired session token"), "authentication required")
			utils.Warn("auth: token rejected", map[string]any{"path": c.Request.URL.Path, "error": err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxAccountType, claims.AccountType)
		c.Next()
	}
}

// UserID returns the authenticated user id from the gin context.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
