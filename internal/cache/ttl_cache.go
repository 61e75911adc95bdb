package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// TTL is a goroutine-safe map-backed cache with per-entry expiry.
// Expired entries are dropped lazily on read or by Purge.
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
	now   func() time.Time
}

// NewTTL returns an empty cache
func NewTTL[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{
		items: make(map[K]entry[V]),
		now:   time.Now,
	}
}

// Get returns the value and whether it was present and not expired
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok || c.expired(e) {
		return zero, false
	}
	return e.value, true
}

// Set stores value; ttl <= 0 means the entry never expires
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Load errors are returned and nothing is cached.
func (c *TTL[K, V]) GetOrLoad(key K, ttl time.Duration, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

// Delete removes a key if present
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all entries
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// Len counts non-expired entries
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.items {
		if !c.expired(e) {
			n++
		}
	}
	return n
}

// Purge removes expired entries
func (c *TTL[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if c.expired(e) {
			delete(c.items, k)
		}
	}
}

func (c *TTL[K, V]) expired(e entry[V]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}
