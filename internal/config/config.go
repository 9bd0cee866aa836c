package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Queue    QueueConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, test, production
	Port        string
	Version     string
	LogLevel    string
}

// DatabaseConfig selects the record store. Driver "memory" keeps everything in-process.
type DatabaseConfig struct {
	Driver      string // postgres, memory
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base used to build object URLs
}

// StorageConfig selects the image storage collaborator
type StorageConfig struct {
	Mode       string // mock, minio
	BucketName string // bucket name embedded in mock URLs
	DeleteMode string // sync, async
}

type CacheConfig struct {
	Driver  string // redis, memory, none
	TTL     time.Duration
	LRUSize int
}

type QueueConfig struct {
	Concurrency int
	MaxRetry    int
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Book Inventory API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "books"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 24*60),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "books"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Storage: StorageConfig{
			Mode:       strings.ToLower(getEnv("STORAGE_MODE", "mock")),
			BucketName: getEnv("GCP_BUCKET_NAME", "cmpc-libros-bucket"),
			DeleteMode: strings.ToLower(getEnv("IMAGE_DELETE_MODE", "sync")),
		},
		Cache: CacheConfig{
			Driver:  strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			TTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
			LRUSize: getEnvInt("CACHE_LRU_SIZE", 1024),
		},
		Queue: QueueConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
			MaxRetry:    getEnvInt("WORKER_MAX_RETRY", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects unknown driver names and default secrets in production
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("CACHE_DRIVER must be redis, memory or none, got %q", c.Cache.Driver)
	}
	switch c.Storage.Mode {
	case "mock", "minio":
	default:
		return fmt.Errorf("STORAGE_MODE must be mock or minio, got %q", c.Storage.Mode)
	}
	switch c.Storage.DeleteMode {
	case "sync", "async":
	default:
		return fmt.Errorf("IMAGE_DELETE_MODE must be sync or async, got %q", c.Storage.DeleteMode)
	}
	if c.Storage.DeleteMode == "async" && c.Redis.Host == "" {
		return fmt.Errorf("IMAGE_DELETE_MODE=async requires REDIS_HOST")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
