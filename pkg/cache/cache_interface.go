package cache

import (
	"context"
	"time"
)

// Cache is the contract for the response cache layer.
// Implementations: Redis (shared) and an in-process LRU (single instance / tests).
type Cache interface {
	// Get loads the cached value into dest.
	// Returns (found bool, error):
	// - found = true: cache hit, dest has been populated
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with a TTL. Values are JSON encoded.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (e.g. "books:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	Close() error
}
