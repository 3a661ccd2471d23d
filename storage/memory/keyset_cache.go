// Package memorystore provides an in-memory key-value cache with TTL,
// suitable for single-process deployments and tests.
package memorystore

import (
	"context"
	"sync"
	"time"
)

// Cache is an in-memory implementation of keykit.KeyValueCache.
type Cache struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	data       map[string]entry
	closed     chan struct{}
}

type entry struct {
	v   []byte
	exp time.Time
}

// NewCache creates an in-memory cache. defaultTTL applies to entries
// stored without an explicit TTL; if defaultTTL <= 0, 10 minutes is used.
// Starts a background goroutine that removes expired entries every minute.
func NewCache(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	c := &Cache{defaultTTL: defaultTTL, data: make(map[string]entry), closed: make(chan struct{})}
	go c.cleanupLoop()
	return c
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(it.exp) {
		delete(c.data, key)
		return nil, false, nil
	}
	return it.v, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = ctx
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{v: value, exp: time.Now().Add(ttl)}
	return nil
}

// cleanupLoop runs in the background and removes expired entries every minute.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.closed:
			return
		}
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, it := range c.data {
		if now.After(it.exp) {
			delete(c.data, k)
		}
	}
}

// Close stops the background cleanup goroutine.
// Should be called when the cache is no longer needed.
func (c *Cache) Close() error {
	close(c.closed)
	return nil
}
