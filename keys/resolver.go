// Package keykit resolves the identity provider's public signing keys,
// reading through an injected key-value cache to avoid refetching the key
// set on every verification.
package keykit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the JWK set Google publishes the Firebase token
// signing keys at.
const DefaultEndpoint = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// cacheKey is the single logical key the provider key set is stored under.
const cacheKey = "google-jwks"

// ttlSafetyMargin is subtracted from the provider's max-age so a cached
// set never outlives the provider's own expiry.
const ttlSafetyMargin = 120 * time.Second

// ErrKeyNotFound means neither the cached key set nor a fresh fetch
// produced a key with the requested kid.
var ErrKeyNotFound = errors.New("keykit: no key matches kid")

// Resolver looks up provider signing keys by kid, preferring the cached
// key set and fetching from the network only on a cache miss.
type Resolver struct {
	endpoint string
	cache    KeyValueCache
	client   *http.Client
	log      logrus.FieldLogger
}

// ResolverOpt configures a Resolver.
type ResolverOpt func(*Resolver)

// WithEndpoint overrides the provider JWK endpoint.
func WithEndpoint(url string) ResolverOpt {
	return func(r *Resolver) { r.endpoint = url }
}

// WithHTTPClient overrides the HTTP client used to fetch the key set.
func WithHTTPClient(c *http.Client) ResolverOpt {
	return func(r *Resolver) { r.client = c }
}

// WithLogger overrides the logger used for fetch and cache diagnostics.
func WithLogger(log logrus.FieldLogger) ResolverOpt {
	return func(r *Resolver) { r.log = log }
}

// NewResolver builds a resolver backed by the given cache.
func NewResolver(cache KeyValueCache, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		endpoint: DefaultEndpoint,
		cache:    cache,
		client:   http.DefaultClient,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProviderKey returns the provider key whose kid matches. A cached set
// that lacks the kid is an immediate ErrKeyNotFound without a refetch: a
// rotated key stays unresolvable until the cache entry expires. On a cache
// miss the key set is fetched once, stored with a TTL derived from the
// response's max-age directive, and scanned. Error responses are never
// cached.
func (r *Resolver) ProviderKey(ctx context.Context, kid string) (*JWK, error) {
	cached, ok, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("keykit: cache read: %w", err)
	}
	if ok {
		var keys []JWK
		if err := json.Unmarshal(cached, &keys); err != nil {
			r.log.WithError(err).Warn("discarding undecodable cached key set")
		} else {
			return matchKid(keys, kid)
		}
	}

	ks, ttl, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(ks.Keys) == 0 {
		return nil, fmt.Errorf("%w: provider returned no keys", ErrKeyNotFound)
	}
	if b, err := json.Marshal(ks.Keys); err == nil {
		if err := r.cache.Put(ctx, cacheKey, b, ttl); err != nil {
			// Best-effort: a failed write just means the next call fetches again.
			r.log.WithError(err).Warn("failed to cache provider key set")
		}
	}
	return matchKid(ks.Keys, kid)
}

func (r *Resolver) fetch(ctx context.Context) (*JWKS, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("keykit: key fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("keykit: key fetch failed: %s", resp.Status)
	}
	var ks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&ks); err != nil {
		return nil, 0, fmt.Errorf("keykit: key fetch: %w", err)
	}
	return &ks, cacheTTL(resp.Header.Get("Cache-Control")), nil
}

// cacheTTL derives a storage TTL from the max-age directive, less the
// safety margin. An absent, unparseable, or too-small directive yields
// zero, leaving expiry to the cache implementation's default.
func cacheTTL(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		v, ok := strings.CutPrefix(strings.TrimSpace(directive), "max-age=")
		if !ok {
			continue
		}
		secs, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		ttl := time.Duration(secs)*time.Second - ttlSafetyMargin
		if ttl <= 0 {
			return 0
		}
		return ttl
	}
	return 0
}

func matchKid(keys []JWK, kid string) (*JWK, error) {
	for i := range keys {
		if keys[i].Kid == kid {
			return &keys[i], nil
		}
	}
	return nil, ErrKeyNotFound
}
