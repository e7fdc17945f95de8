package utils

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// TTLCache is an in-memory key/value cache whose entries expire after a
// fixed lifetime. Entries are treated as immutable once stored. The clock
// is injected so expiry can be tested without sleeping.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache creates a cache with the given entry lifetime.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return NewTTLCacheWithClock(ttl, time.Now)
}

// NewTTLCacheWithClock creates a cache using a caller-supplied clock.
func NewTTLCacheWithClock(ttl time.Duration, now func() time.Time) *TTLCache {
	return &TTLCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached value for key, if present and fresh. Stale
// entries are evicted on lookup.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// stored a fresh entry meanwhile.
		if cur, still := c.entries[key]; still && c.now().Sub(cur.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with a fresh lifetime.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, including any not
// yet evicted stale ones.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
