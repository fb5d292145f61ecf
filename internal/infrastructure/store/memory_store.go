package store

import (
	"time"

	"aura_gateway/internal/app/port"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process KVStore whose entries are evicted after their TTL.
type MemoryStore[V any] struct {
	c *cache.Cache
}

// NewMemoryStore creates a store with the given default TTL and cleanup interval.
func NewMemoryStore[V any](defaultTTL, cleanupInterval time.Duration) *MemoryStore[V] {
	return &MemoryStore[V]{c: cache.New(defaultTTL, cleanupInterval)}
}

var _ port.KVStore[int] = (*MemoryStore[int])(nil)

// Get returns the value if present and not expired.
func (s *MemoryStore[V]) Get(key string) (V, bool) {
	var zero V
	raw, ok := s.c.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// Put stores the value. A ttl <= 0 uses the store default.
func (s *MemoryStore[V]) Put(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.c.Set(key, value, ttl)
}

// Expire removes the key.
func (s *MemoryStore[V]) Expire(key string) {
	s.c.Delete(key)
}

// Len reports the number of stored entries, expired but not yet evicted ones included.
func (s *MemoryStore[V]) Len() int {
	return s.c.ItemCount()
}
