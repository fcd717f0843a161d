package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware enforces bearer JWT tokens signed with HS256 and rejects
// revoked sessions.
func Middleware(signingKey, issuer string, revoker *Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if revoker.Revoked(c.Request.Context(), claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session revoked"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// RequireRole allows only requests whose verified claims carry one of the
// given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified claims set by Middleware, zero if absent.
func ClaimsFrom(c *gin.Context) Claims {
	v, ok := c.Get("claims")
	if !ok {
		return Claims{}
	}
	claims, _ := v.(Claims)
	return claims
}
