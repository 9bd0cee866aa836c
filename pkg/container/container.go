package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"book-inventory-backend/internal/config"
	infraCache "book-inventory-backend/internal/infrastructure/cache"
	"book-inventory-backend/internal/infrastructure/database"
	"book-inventory-backend/internal/infrastructure/queue"
	"book-inventory-backend/internal/infrastructure/storage"
	"book-inventory-backend/pkg/cache"
	"book-inventory-backend/pkg/jwt"
	"book-inventory-backend/pkg/metrics"

	// Book domain
	bookHandler "book-inventory-backend/internal/domains/book/handler"
	bookRepo "book-inventory-backend/internal/domains/book/repository"
	bookService "book-inventory-backend/internal/domains/book/service"

	// User domain
	"book-inventory-backend/internal/domains/user"
	userHandler "book-inventory-backend/internal/domains/user/handler"
	userRepo "book-inventory-backend/internal/domains/user/repository"
	userService "book-inventory-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
// Built once at startup, released by Cleanup.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB // nil when STORE_DRIVER=memory
	Cache       cache.Cache
	Images      storage.ImageStorage
	QueueClient *asynq.Client // nil unless IMAGE_DELETE_MODE=async
	JWTManager  *jwt.Manager
	Metrics     *metrics.Metrics

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BookRepo bookRepo.RepositoryInterface
	UserRepo user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	BookService bookService.ServiceInterface
	UserService user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	BookHandler *bookHandler.Handler
	UserHandler *userHandler.UserHandler
}

// NewContainer loads the config from the environment and wires everything
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New wires the dependency graph for cfg. Order: infrastructure, repositories,
// services, handlers.
func New(cfg *config.Config) (*Container, error) {
	log.Println("[CONTAINER] Initializing DI container...")
	c := &Container{Config: cfg, Metrics: metrics.New()}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"database", c.initDatabase},
		{"cache", c.initCache},
		{"storage", c.initStorage},
		{"auth", c.initAuth},
		{"repositories", c.initRepositories},
		{"services", c.initServices},
		{"handlers", c.initHandlers},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to init %s: %w", step.name, err)
		}
		log.Printf("[CONTAINER] %s ready", step.name)
	}

	log.Println("[CONTAINER] DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase(ctx context.Context) error {
	if c.Config.Database.Driver == "memory" {
		log.Println("[CONTAINER] STORE_DRIVER=memory, records are kept in process")
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return err
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	c.DB = db

	if c.Config.Database.AutoMigrate {
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	switch c.Config.Cache.Driver {
	case "redis":
		redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
		// Redis failure is not critical: reads fall through to the store
		if rc, ok := redisCache.(*infraCache.RedisCache); ok {
			if err := rc.Connect(ctx); err != nil {
				log.Printf("[CONTAINER] Redis connection failed (non-critical): %v", err)
			}
		}
		c.Cache = redisCache
	case "memory":
		lruCache, err := infraCache.NewLRUCache(c.Config.Cache.LRUSize)
		if err != nil {
			return err
		}
		c.Cache = lruCache
	default:
		c.Cache = infraCache.NewNoopCache()
	}
	return nil
}

func (c *Container) initStorage(ctx context.Context) error {
	images, err := NewImageStorage(ctx, c.Config)
	if err != nil {
		return err
	}

	if c.Config.Storage.DeleteMode == "async" {
		c.QueueClient = asynq.NewClient(RedisClientOpt(c.Config.Redis))
		images = queue.NewDeferredDeleteStorage(images, c.QueueClient, c.Config.Queue.MaxRetry)
	}

	c.Images = images
	return nil
}

// NewImageStorage builds the backend selected by STORAGE_MODE. The worker
// uses it directly to run deferred deletions.
func NewImageStorage(ctx context.Context, cfg *config.Config) (storage.ImageStorage, error) {
	if cfg.Storage.Mode == "minio" {
		minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return minioStorage, nil
	}
	return storage.NewMockStorage(cfg.Storage.BucketName), nil
}

func (c *Container) initAuth(context.Context) error {
	manager, err := jwt.NewManager(c.Config.JWT.Secret, time.Duration(c.Config.JWT.AccessTokenExpiry)*time.Minute)
	if err != nil {
		return err
	}
	c.JWTManager = manager
	return nil
}

func (c *Container) initRepositories(context.Context) error {
	if c.DB == nil {
		c.BookRepo = bookRepo.NewMemoryRepository()
		c.UserRepo = userRepo.NewMemoryRepository()
		return nil
	}

	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	return nil
}

func (c *Container) initServices(context.Context) error {
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.Images,
		c.Cache,
		bookService.WithCacheTTL(c.Config.Cache.TTL),
		bookService.WithMetrics(c.Metrics),
	)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	return nil
}

func (c *Container) initHandlers(context.Context) error {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	return nil
}

// RedisClientOpt is shared by the API (enqueue) and the worker (consume)
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Cleanup releases connections; safe on a partially built container
func (c *Container) Cleanup() {
	log.Println("[CONTAINER] Cleaning up resources...")

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Printf("[CONTAINER] Failed to close queue client: %v", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("[CONTAINER] Failed to close cache: %v", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	log.Println("[CONTAINER] Cleanup completed")
}
