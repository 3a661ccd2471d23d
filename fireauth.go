// Package fireauth verifies Firebase ID tokens inside request-handling
// environments that hold no local secret material. Verification decodes
// the compact token, checks the standard securetoken claims plus any
// caller-supplied predicates, resolves the provider's public signing key
// through an injected key-value cache, and verifies the RS256 signature
// over the exact signed bytes.
//
// The package exposes a single entry point; wiring it to an HTTP
// framework is the environment's job (see adapters/gin for one).
package fireauth

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	claimkit "github.com/open-rails/fireauth/claims"
	keykit "github.com/open-rails/fireauth/keys"
	tokenkit "github.com/open-rails/fireauth/token"
	verifykit "github.com/open-rails/fireauth/verify"
)

// issuerPrefix is the issuer every Firebase ID token carries, completed by
// the project id.
const issuerPrefix = "https://securetoken.google.com/"

// expectedAlg is the only signing algorithm accepted. Tokens asserting
// anything else are rejected before key resolution, which defends against
// algorithm-substitution attacks.
const expectedAlg = "RS256"

// Verifier authenticates Firebase ID tokens for a single project.
type Verifier struct {
	projectID string
	resolver  *keykit.Resolver
	log       logrus.FieldLogger
}

// Option configures a Verifier.
type Option func(*settings)

type settings struct {
	endpoint string
	client   *http.Client
	log      logrus.FieldLogger
}

// WithJWKSEndpoint overrides the provider key-set endpoint.
func WithJWKSEndpoint(url string) Option {
	return func(s *settings) { s.endpoint = url }
}

// WithHTTPClient overrides the HTTP client used for key-set fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

// WithLogger overrides the logger rejection reasons are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *settings) { s.log = log }
}

// New builds a Verifier for projectID. cache stores the provider key set
// between verifications; it is the only shared state between concurrent
// calls.
func New(projectID string, cache keykit.KeyValueCache, opts ...Option) *Verifier {
	s := settings{
		endpoint: keykit.DefaultEndpoint,
		client:   http.DefaultClient,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Verifier{
		projectID: projectID,
		resolver: keykit.NewResolver(cache,
			keykit.WithEndpoint(s.endpoint),
			keykit.WithHTTPClient(s.client),
			keykit.WithLogger(s.log),
		),
		log: s.log,
	}
}

// Authenticate verifies token and returns its payload claims. The boolean
// is false on any failure: malformed token, failed claim check, missing
// key, or signature mismatch all collapse to the same rejection, with the
// reason logged but never returned. Verification is all-or-nothing; a
// rejection carries no claims.
func (v *Verifier) Authenticate(ctx context.Context, token string, extra ...claimkit.Predicate) (claimkit.Map, bool) {
	claims, err := v.verify(ctx, token, extra)
	if err != nil {
		v.log.WithError(err).WithField("project_id", v.projectID).Debug("token rejected")
		return nil, false
	}
	return claims, true
}

// Authenticate verifies a Firebase ID token for projectID with a
// throwaway Verifier. Callers doing repeated verifications should build a
// Verifier once with New.
func Authenticate(ctx context.Context, projectID string, cache keykit.KeyValueCache, token string, extra ...claimkit.Predicate) (claimkit.Map, bool) {
	return New(projectID, cache).Authenticate(ctx, token, extra...)
}

func (v *Verifier) verify(ctx context.Context, token string, extra []claimkit.Predicate) (claimkit.Map, error) {
	if token == "" {
		return nil, errMissingToken
	}

	dec, err := tokenkit.Decode(token)
	if err != nil {
		return nil, err
	}

	standard := []claimkit.Predicate{
		claimkit.InFuture("exp"),
		claimkit.InPast("iat"),
		claimkit.Equals("aud", v.projectID),
		claimkit.Equals("iss", issuerPrefix+v.projectID),
		claimkit.NotEmpty("sub"),
		claimkit.InPast("auth_time"),
	}
	if !claimkit.Validate(dec.Payload, standard) {
		return nil, errClaimsRejected
	}
	if !claimkit.Validate(dec.Header, []claimkit.Predicate{claimkit.Equals("alg", expectedAlg)}) {
		return nil, errWrongAlgorithm
	}
	if !claimkit.Validate(dec.Payload, extra) {
		return nil, errCallerRejected
	}

	// Claims are checked before the key is resolved so structurally
	// invalid tokens never cost a network fetch.
	kid, _ := dec.Header.GetString("kid")
	key, err := v.resolver.ProviderKey(ctx, kid)
	if err != nil {
		return nil, err
	}
	pub, err := verifykit.PublicKey(*key)
	if err != nil {
		return nil, err
	}
	if !verifykit.Verify(pub, dec.RawHeader, dec.RawPayload, dec.Signature) {
		return nil, errSignatureInvalid
	}
	return dec.Payload, nil
}
