package cache

import (
	"context"
	"time"

	"book-inventory-backend/pkg/cache"
)

// NoopCache always misses. Used with CACHE_DRIVER=none.
type NoopCache struct{}

func NewNoopCache() cache.Cache { return NoopCache{} }

func (NoopCache) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error                      { return nil }
func (NoopCache) DeletePattern(context.Context, string) error                  { return nil }
func (NoopCache) Ping(context.Context) error                                   { return nil }
func (NoopCache) Close() error                                                 { return nil }
