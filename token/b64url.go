package tokenkit

import (
	"encoding/base64"
	"fmt"
)

// DecodeSegment decodes one base64url token segment (URL-safe alphabet,
// no padding). A segment whose length is 1 mod 4 cannot be completed by
// padding and is rejected outright rather than silently truncated.
func DecodeSegment(s string) ([]byte, error) {
	if len(s)%4 == 1 {
		return nil, fmt.Errorf("%w: illegal base64url segment length %d", ErrMalformedToken, len(s))
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return b, nil
}
