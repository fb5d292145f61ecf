package port

import "time"

// KVStore is a key-value store whose entries expire.
type KVStore[V any] interface {
	Get(key string) (V, bool)
	// Put stores the value; a ttl <= 0 means the store default.
	Put(key string, value V, ttl time.Duration)
	// Expire removes the key immediately.
	Expire(key string)
}
