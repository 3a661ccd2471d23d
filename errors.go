package fireauth

import "errors"

// Internal failure taxonomy. All of these (plus the sentinels owned by
// tokenkit, keykit, and verifykit) are swallowed at the Authenticate
// boundary: the public contract is a single accept/reject decision, and
// the reason only reaches the logger. Callers cannot branch on why a
// token was rejected, which keeps the response surface uniform.
var (
	errMissingToken     = errors.New("fireauth: missing token")
	errClaimsRejected   = errors.New("fireauth: claim validation failed")
	errCallerRejected   = errors.New("fireauth: caller predicate failed")
	errWrongAlgorithm   = errors.New("fireauth: unexpected signing algorithm")
	errSignatureInvalid = errors.New("fireauth: signature mismatch")
)
