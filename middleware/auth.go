package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"giftwell-backend/services"
)

const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

// TokenVerifier validates a bearer token. Satisfied by the auth service.
type TokenVerifier interface {
	Verify(token string) (*services.TokenClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores
// the verified claims on the context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth stores claims when a valid token is present and lets the
// request through either way. Used by checkout paths that accept guests.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if claims, err := verifier.Verify(token); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, with or
// without the "Bearer " prefix.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// UserID returns the authenticated user id, empty for guests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
