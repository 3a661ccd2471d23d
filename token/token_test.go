package tokenkit

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
)

func segment(v string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(v))
}

func TestDecodeSegmentRoundTrip(t *testing.T) {
	for size := 0; size <= 64; size++ {
		raw := make([]byte, size)
		if _, err := rand.Read(raw); err != nil {
			t.Fatalf("rand: %v", err)
		}
		enc := base64.RawURLEncoding.EncodeToString(raw)
		dec, err := DecodeSegment(enc)
		if err != nil {
			t.Fatalf("size %d: DecodeSegment: %v", size, err)
		}
		if string(dec) != string(raw) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
		if base64.RawURLEncoding.EncodeToString(dec) != enc {
			t.Fatalf("size %d: re-encode mismatch", size)
		}
	}
}

func TestDecodeSegmentIllegalLength(t *testing.T) {
	// 5 mod 4 == 1 cannot be completed by padding.
	if _, err := DecodeSegment("abcde"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestDecodeSegmentBadAlphabet(t *testing.T) {
	if _, err := DecodeSegment("$$$$"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestDecodeWrongSegmentCount(t *testing.T) {
	for _, raw := range []string{"a.b", "a.b.c.d", "", "abc"} {
		if _, err := Decode(raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("%q: expected ErrMalformedToken, got %v", raw, err)
		}
	}
}

func TestDecodeBadJSON(t *testing.T) {
	raw := segment("not json") + "." + segment(`{"sub":"abc"}`) + "." + segment("sig")
	if _, err := Decode(raw); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for bad header JSON, got %v", err)
	}

	raw = segment(`{"alg":"RS256"}`) + "." + segment("not json") + "." + segment("sig")
	if _, err := Decode(raw); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for bad payload JSON, got %v", err)
	}
}

func TestDecodePreservesRawSegments(t *testing.T) {
	header := segment(`{"alg":"RS256","kid":"k1"}`)
	payload := segment(`{"sub":"abc","exp":1700000000}`)
	sig := segment("raw-signature-bytes")

	dec, err := Decode(header + "." + payload + "." + sig)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if dec.RawHeader != header {
		t.Fatalf("RawHeader not preserved: %q", dec.RawHeader)
	}
	if dec.RawPayload != payload {
		t.Fatalf("RawPayload not preserved: %q", dec.RawPayload)
	}
	if string(dec.Signature) != "raw-signature-bytes" {
		t.Fatalf("signature bytes mismatch: %q", dec.Signature)
	}
	if alg, _ := dec.Header.GetString("alg"); alg != "RS256" {
		t.Fatalf("header alg = %q", alg)
	}
	if kid, _ := dec.Header.GetString("kid"); kid != "k1" {
		t.Fatalf("header kid = %q", kid)
	}
	if sub, _ := dec.Payload.GetString("sub"); sub != "abc" {
		t.Fatalf("payload sub = %q", sub)
	}
	if exp, ok := dec.Payload.GetNumber("exp"); !ok || exp != 1700000000 {
		t.Fatalf("payload exp = %v (%v)", exp, ok)
	}
}

func TestDecodeRejectsEmptySegment(t *testing.T) {
	raw := "." + segment(`{"sub":"abc"}`) + "." + segment("sig")
	if _, err := Decode(raw); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for empty header segment, got %v", err)
	}
}
