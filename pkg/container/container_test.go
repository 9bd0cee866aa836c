package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-inventory-backend/internal/config"
	infraCache "book-inventory-backend/internal/infrastructure/cache"
	"book-inventory-backend/internal/infrastructure/storage"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Environment: "test"},
		Database: config.DatabaseConfig{Driver: "memory"},
		JWT:      config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 60},
		Storage:  config.StorageConfig{Mode: "mock", BucketName: "test-bucket", DeleteMode: "sync"},
		Cache:    config.CacheConfig{Driver: "memory", TTL: time.Minute, LRUSize: 16},
	}
}

func TestNew_MemoryStack(t *testing.T) {
	c, err := New(memoryConfig())
	require.NoError(t, err)
	defer c.Cleanup()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.QueueClient)
	assert.IsType(t, &infraCache.LRUCache{}, c.Cache)
	assert.IsType(t, &storage.MockStorage{}, c.Images)
	assert.NotNil(t, c.BookHandler)
	assert.NotNil(t, c.UserHandler)
	assert.Equal(t, time.Hour, c.JWTManager.AccessTTL())
}

func TestNew_NoCache(t *testing.T) {
	cfg := memoryConfig()
	cfg.Cache.Driver = "none"

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Cleanup()

	assert.IsType(t, infraCache.NoopCache{}, c.Cache)
}

func TestNew_EmptySecret(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWT.Secret = ""

	_, err := New(cfg)
	assert.ErrorContains(t, err, "auth")
}
