// Package cache provides a small in-memory read cache with per-entry TTL
// expiration. Callers construct and own their cache instance; there is no
// package-level shared state. The clock is injectable so expiry is testable
// without sleeping.
package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe TTL cache for values of type V.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Option configures a Cache created with New.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source. Used in tests to advance time
// deterministically.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores a value, stamping its expiry from the cache's TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Delete removes a cache entry.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all cache entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[V])
}

// Prune removes expired entries. Call periodically if the key space is
// unbounded; expired entries are otherwise only dropped on overwrite.
func (c *Cache[V]) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}
}

// Len returns the number of stored entries, including any not yet pruned.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
