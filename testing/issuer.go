// Package testing provides a mock identity provider for testing code that
// verifies Firebase ID tokens. It runs an HTTP server that serves a JWKS
// document with cache headers and signs tokens that validate against it,
// so integration tests never touch the real provider.
//
// Example usage:
//
//	issuer := testing.NewTestIssuer("my-project")
//	defer issuer.Close()
//
//	v := fireauth.New(issuer.ProjectID(), cache,
//		fireauth.WithJWKSEndpoint(issuer.JWKSURL()))
//	token := issuer.CreateToken("user-123")
package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	keykit "github.com/open-rails/fireauth/keys"
)

// TestIssuer is a mock securetoken issuer. It serves its public key as a
// JWKS document at /jwks and signs RS256 tokens shaped like Firebase ID
// tokens for the configured project.
type TestIssuer struct {
	server    *httptest.Server
	key       *rsa.PrivateKey
	kid       string
	projectID string
	maxAge    int

	mu       sync.Mutex
	requests int
}

// NewTestIssuer creates a test issuer for projectID with a fresh RSA key
// pair and a JWKS max-age of one hour. Call Close when done.
func NewTestIssuer(projectID string) *TestIssuer {
	return NewTestIssuerWithMaxAge(projectID, 3600)
}

// NewTestIssuerWithMaxAge creates a test issuer whose JWKS responses carry
// the given Cache-Control max-age, in seconds.
func NewTestIssuerWithMaxAge(projectID string, maxAge int) *TestIssuer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("failed to generate RSA key: " + err.Error())
	}

	ti := &TestIssuer{
		key:       key,
		kid:       uuid.NewString(),
		projectID: projectID,
		maxAge:    maxAge,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/jwks", ti.handleJWKS)

	ti.server = httptest.NewServer(mux)
	return ti
}

// JWKSURL returns the key-set endpoint to point verifiers at.
func (ti *TestIssuer) JWKSURL() string { return ti.server.URL + "/jwks" }

// ProjectID returns the project the issuer mints tokens for.
func (ti *TestIssuer) ProjectID() string { return ti.projectID }

// KID returns the key id carried in minted token headers.
func (ti *TestIssuer) KID() string { return ti.kid }

// Requests returns how many times the JWKS endpoint has been hit. Useful
// for asserting that a key cache avoided a refetch.
func (ti *TestIssuer) Requests() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.requests
}

// Close shuts down the test server.
func (ti *TestIssuer) Close() {
	if ti.server != nil {
		ti.server.Close()
	}
}

func (ti *TestIssuer) handleJWKS(w http.ResponseWriter, r *http.Request) {
	ti.mu.Lock()
	ti.requests++
	ti.mu.Unlock()

	j := keykit.RSAPublicToJWK(&ti.key.PublicKey, ti.kid, "RS256")
	keykit.ServeJWKS(w, r, keykit.JWKS{Keys: []keykit.JWK{j}}, ti.maxAge)
}

// CreateToken signs a token with the standard securetoken claims for the
// given subject: iss/aud for the project, iat and auth_time now, exp one
// hour out.
func (ti *TestIssuer) CreateToken(subject string) string {
	return ti.CreateTokenWithClaims(subject, nil)
}

// CreateTokenWithClaims signs a token with extra claims merged over the
// standard set, so callers can override any standard claim (e.g. exp) or
// add custom ones.
func (ti *TestIssuer) CreateTokenWithClaims(subject string, extra map[string]any) string {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":       "https://securetoken.google.com/" + ti.projectID,
		"aud":       ti.projectID,
		"sub":       subject,
		"iat":       now.Unix(),
		"auth_time": now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = ti.kid
	signed, err := token.SignedString(ti.key)
	if err != nil {
		panic("failed to sign token: " + err.Error())
	}
	return signed
}

// CreateExpiredToken signs a token whose exp is already in the past.
func (ti *TestIssuer) CreateExpiredToken(subject string) string {
	return ti.CreateTokenWithClaims(subject, map[string]any{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
}
