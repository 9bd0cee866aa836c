package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"book-inventory-backend/pkg/cache"
)

type lruEntry struct {
	payload   []byte
	expiresAt time.Time
}

// LRUCache is an in-process cache.Cache used when Redis is not configured.
// Values are stored JSON encoded so callers get the same copy semantics as with Redis.
type LRUCache struct {
	store *lru.Cache[string, lruEntry]
	now   func() time.Time
}

func NewLRUCache(size int) (cache.Cache, error) {
	if size <= 0 {
		size = 1024
	}
	store, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache{store: store, now: time.Now}, nil
}

func (c *LRUCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	entry, ok := c.store.Get(key)
	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.store.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, fmt.Errorf("lru decode %s: %w", key, err)
	}
	return true, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("lru encode %s: %w", key, err)
	}
	entry := lruEntry{payload: raw}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.store.Add(key, entry)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Remove(key)
	}
	return nil
}

// DeletePattern uses the same glob syntax Redis SCAN MATCH understands for the
// patterns this service issues ("prefix:*").
func (c *LRUCache) DeletePattern(_ context.Context, pattern string) error {
	for _, key := range c.store.Keys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("lru pattern %s: %w", pattern, err)
		}
		if matched {
			c.store.Remove(key)
		}
	}
	return nil
}

func (c *LRUCache) Ping(context.Context) error { return nil }

func (c *LRUCache) Close() error {
	c.store.Purge()
	return nil
}
