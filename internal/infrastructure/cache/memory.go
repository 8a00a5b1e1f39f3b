package cache

import (
	"context"
	"sync"
	"time"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// entry is a single cached value. A zero expiration never expires.
type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

// MemoryCache is a thread-safe in-memory cache. Entries stored with a zero TTL live
// for the lifetime of the process.
type MemoryCache[K comparable, V any] struct {
	data  map[K]entry[V]
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache[K comparable, V any]() *MemoryCache[K, V] {
	return &MemoryCache[K, V]{
		data: make(map[K]entry[V]),
		now:  time.Now,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || item.expired(c.now()) {
		var zero V
		return zero, domain.ErrCacheMiss
	}

	return item.value, nil
}

// Set stores a value in the cache. ttl <= 0 means the entry never expires.
func (c *MemoryCache[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expiration time.Time
	if ttl > 0 {
		expiration = c.now().Add(ttl)
	}
	c.data[key] = entry[V]{value: value, expiration: expiration}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache[K, V]) Delete(ctx context.Context, key K) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache[K, V]) Exists(ctx context.Context, key K) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	return exists && !item.expired(c.now()), nil
}

// Prune drops expired entries and returns how many were removed.
func (c *MemoryCache[K, V]) Prune() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.data {
		if item.expired(now) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[K]entry[V])
}
