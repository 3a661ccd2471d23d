package keykit

import (
	"context"
	"time"
)

// KeyValueCache is the external store the resolver reads provider key sets
// through. Implementations must provide atomic get/put per key. Get reports
// a miss with ok=false; a zero ttl on Put means the cache's own default
// expiry. The resolver only ever touches one fixed logical key per cache
// instance, so callers scope isolation by supplying distinct caches or
// prefixed implementations.
type KeyValueCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
