// Package redisstore provides a Redis-backed key-value cache for provider
// key sets shared across processes.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis implementation of keykit.KeyValueCache.
type Cache struct {
	rdb        *redis.Client
	keyNS      string
	defaultTTL time.Duration
}

// NewCache creates a Redis-backed cache. keyPrefix namespaces entries
// (default "auth:jwks:"); defaultTTL applies to entries stored without an
// explicit TTL (default 1 hour).
func NewCache(rdb *redis.Client, keyPrefix string, defaultTTL time.Duration) *Cache {
	if keyPrefix == "" {
		keyPrefix = "auth:jwks:"
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Cache{rdb: rdb, keyNS: keyPrefix, defaultTTL: defaultTTL}
}

func (c *Cache) key(k string) string { return c.keyNS + k }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}
