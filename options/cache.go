package options

import (
	"context"
	"sync"
	"time"
)

// Cache is the key/value backend of CachedStore.
type Cache interface {
	// Get returns the value under key. found is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (value any, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryCache is an in-process Cache with an optional TTL applied to every
// entry. It does not share state across processes.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memEntry
	ttl   time.Duration
}

type memEntry struct {
	val       any
	expiresAt time.Time // zero means no expiration
}

// NewMemoryCache creates a MemoryCache. A ttl of 0 disables expiry.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memEntry),
		ttl:   ttl,
	}
}

// Get implements Cache. Expired entries are removed on access.
func (c *MemoryCache) Get(_ context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.val, true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value any) error {
	entry := memEntry{val: value}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Flush drops every entry.
func (c *MemoryCache) Flush() {
	c.mu.Lock()
	c.items = make(map[string]memEntry)
	c.mu.Unlock()
}

var _ Cache = (*MemoryCache)(nil)
