package main

import (
	"os"

	"github.com/hibiken/asynq"

	"book-inventory-backend/internal/config"
	"book-inventory-backend/internal/shared"
	"book-inventory-backend/pkg/container"
)

// WorkerConfig holds the worker-only settings on top of the shared config
type WorkerConfig struct {
	*config.Config
	HealthPort string
}

func loadConfig() (*WorkerConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &WorkerConfig{
		Config:     cfg,
		HealthPort: getEnv("WORKER_HEALTH_PORT", "9999"),
	}, nil
}

func (c *WorkerConfig) redisOpt() asynq.RedisClientOpt {
	return container.RedisClientOpt(c.Redis)
}

func (c *WorkerConfig) concurrency() int {
	if c.Queue.Concurrency <= 0 {
		return 5
	}
	return c.Queue.Concurrency
}

func (c *WorkerConfig) queues() map[string]int {
	return map[string]int{shared.QueueDefault: 10}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
