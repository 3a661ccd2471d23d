// Package verifykit checks RS256 token signatures against provider JWKs.
package verifykit

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"

	keykit "github.com/open-rails/fireauth/keys"
)

// ErrKeyImport means the provider's key material could not be turned into
// a verifying key. This is distinct from an invalid signature, which is a
// normal verification failure.
var ErrKeyImport = errors.New("verifykit: malformed key material")

// PublicKey imports a provider JWK record as an RSA public key.
func PublicKey(k keykit.JWK) (*rsa.PublicKey, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyImport, err)
	}
	key, err := jwk.ParseKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyImport, err)
	}
	var pub rsa.PublicKey
	if err := key.Raw(&pub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyImport, err)
	}
	return &pub, nil
}

// Verify reports whether sig is a valid RSA-SHA256 signature over the
// exact base64url segments the issuer signed (rawHeader "." rawPayload).
// An invalid signature is a plain false, never an error.
func Verify(pub *rsa.PublicKey, rawHeader, rawPayload string, sig []byte) bool {
	sum := sha256.Sum256([]byte(rawHeader + "." + rawPayload))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig) == nil
}
