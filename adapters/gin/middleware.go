// Package authgin wires fireauth verification into gin. The middleware
// only extracts the bearer token and maps the verification decision to a
// response; all verification logic stays in the core.
package authgin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/fireauth"
	claimkit "github.com/open-rails/fireauth/claims"
)

// claimsContextKey is the gin context key verified claims are stored under.
const claimsContextKey = "fireauth.claims"

// RequireAuth rejects requests that do not carry a valid bearer token.
// Verified payload claims are stored on the gin context for handlers to
// read via ClaimsFromGin. The response body never says why a token was
// rejected.
func RequireAuth(v *fireauth.Verifier, extra ...claimkit.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, ok := v.Authenticate(c.Request.Context(), token, extra...)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// ClaimsFromGin returns the claims stored by RequireAuth.
func ClaimsFromGin(c *gin.Context) (claimkit.Map, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(claimkit.Map)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
