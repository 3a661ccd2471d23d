package authgin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/open-rails/fireauth"
	memorystore "github.com/open-rails/fireauth/storage/memory"
	issuertest "github.com/open-rails/fireauth/testing"
)

func newRouter(t *testing.T, issuer *issuertest.TestIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache := memorystore.NewCache(0)
	t.Cleanup(func() { _ = cache.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	v := fireauth.New(issuer.ProjectID(), cache,
		fireauth.WithJWKSEndpoint(issuer.JWKSURL()),
		fireauth.WithLogger(log),
	)

	r := gin.New()
	r.GET("/me", RequireAuth(v), func(c *gin.Context) {
		claims, ok := ClaimsFromGin(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		sub, _ := claims.GetString("sub")
		c.JSON(http.StatusOK, gin.H{"sub": sub})
	})
	return r
}

func TestRequireAuthMissingHeader(t *testing.T) {
	issuer := issuertest.NewTestIssuer("proj-1")
	defer issuer.Close()
	r := newRouter(t, issuer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	issuer := issuertest.NewTestIssuer("proj-1")
	defer issuer.Close()
	r := newRouter(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer a.b.c")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := issuertest.NewTestIssuer("proj-1")
	defer issuer.Close()
	r := newRouter(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issuer.CreateToken("user-123"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "user-123") {
		t.Fatalf("expected body to carry sub, got %s", w.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := bearerToken(req); ok {
		t.Fatalf("expected no token without header")
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, ok := bearerToken(req); ok {
		t.Fatalf("expected no token for non-bearer scheme")
	}

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	tok, ok := bearerToken(req)
	if !ok || tok != "abc.def.ghi" {
		t.Fatalf("expected bearer token, got (%q, %v)", tok, ok)
	}

	req.Header.Set("Authorization", "bearer abc")
	if tok, ok := bearerToken(req); !ok || tok != "abc" {
		t.Fatalf("expected case-insensitive scheme, got (%q, %v)", tok, ok)
	}
}
