package keykit

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
)

// JWK carries the minimal fields of an RSA public signing key as published
// in the provider's key set.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n"` // base64url modulus
	E   string `json:"e"` // base64url exponent
}

// JWKS is a provider key set. A fetched set is immutable: key rotation is
// picked up by a full refetch and replacement, never an in-place merge.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// RSAPublicToJWK converts an RSA public key to a JWK.
func RSAPublicToJWK(pub *rsa.PublicKey, kid, alg string) JWK {
	n := base64URLEncode(pub.N)
	e := base64URLEncode(big.NewInt(int64(pub.E)))
	return JWK{Kty: "RSA", Use: "sig", Kid: kid, Alg: alg, N: n, E: e}
}

// ServeJWKS writes a key set as JSON with a max-age cache directive, the
// header shape the key resolver derives its storage TTL from.
func ServeJWKS(w http.ResponseWriter, r *http.Request, ks JWKS, maxAge int) {
	// Marshal first to compute a stable ETag alongside the cache headers
	b, _ := json.Marshal(ks)
	sum := sha256.Sum256(b)
	etag := "\"" + hex.EncodeToString(sum[:]) + "\""

	// Conditional GET support
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, must-revalidate", maxAge))
	w.Header().Set("ETag", etag)
	_, _ = w.Write(b)
}

func base64URLEncode(i *big.Int) string {
	b := i.Bytes()
	// Remove leading zeros for canonical form
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
