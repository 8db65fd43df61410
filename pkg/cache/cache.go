// Package cache provides an in-memory map whose entries expire a fixed
// duration after they are stored. Expired entries are evicted lazily on
// read and by a full sweep on every write.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the lifetime applied when New receives a non-positive TTL.
const DefaultTTL = time.Hour

// Entry wraps a cached value with the time it was stamped.
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Cache is a TTL map safe for concurrent use. Concurrent writes to the same
// key resolve last-write-wins.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]Entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Cache whose entries expire ttl after their stamp.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache[K, V]{
		entries: make(map[K]Entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// TTL returns the entry lifetime.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Set stores value under key stamped with the current time.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetAt(key, value, time.Time{})
}

// SetAt stores value under key with the given stamp, or the current time
// when stamp is zero, then evicts every expired entry.
func (c *Cache[K, V]) SetAt(key K, value V, stamp time.Time) {
	now := c.now()
	if stamp.IsZero() {
		stamp = now
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[V]{Value: value, CreatedAt: stamp}
	c.sweep(now)
}

// Get returns the value stored under key. An entry older than the TTL is
// deleted and reported as missing.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	entry, ok := c.Entry(key)
	return entry.Value, ok
}

// Entry returns the stored entry including its stamp, applying the same
// expiry rule as Get.
func (c *Cache[K, V]) Entry(key K) (Entry[V], bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Entry[V]{}, false
	}

	if c.expired(entry, now) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && c.expired(current, now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Entry[V]{}, false
	}

	return entry, true
}

// Delete removes key if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, including expired entries not
// yet evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep evicts every expired entry and returns how many were removed.
func (c *Cache[K, V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep(now)
}

func (c *Cache[K, V]) sweep(now time.Time) int {
	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[K, V]) expired(entry Entry[V], now time.Time) bool {
	return now.Sub(entry.CreatedAt) > c.ttl
}
