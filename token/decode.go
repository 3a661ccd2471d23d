// Package tokenkit decodes the compact JWS form into structured claim
// maps while preserving the exact signed bytes for verification.
package tokenkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	claimkit "github.com/open-rails/fireauth/claims"
)

// ErrMalformedToken marks any structural, encoding, or JSON failure while
// decoding a compact token.
var ErrMalformedToken = errors.New("tokenkit: malformed token")

// Decoded is a structurally valid compact token. RawHeader and RawPayload
// are the original base64url segments, not re-encodings: the issuer signed
// those exact bytes, and a decode/re-encode cycle could silently desync
// from them.
type Decoded struct {
	Header     claimkit.Map
	Payload    claimkit.Map
	Signature  []byte
	RawHeader  string
	RawPayload string
}

// Decode splits a compact token into its three segments and decodes the
// header and payload into claim maps. Any missing segment, bad encoding,
// or unparseable JSON yields ErrMalformedToken.
func Decode(raw string) (*Decoded, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	header, err := decodeClaims(parts[0])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	payload, err := decodeClaims(parts[1])
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	sig, err := DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}

	return &Decoded{
		Header:     header,
		Payload:    payload,
		Signature:  sig,
		RawHeader:  parts[0],
		RawPayload: parts[1],
	}, nil
}

func decodeClaims(segment string) (claimkit.Map, error) {
	b, err := DecodeSegment(segment)
	if err != nil {
		return nil, err
	}
	var m claimkit.Map
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return m, nil
}
