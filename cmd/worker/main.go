// cmd/worker/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"book-inventory-backend/pkg/container"
	"book-inventory-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[Config] Failed to load: %v", err)
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	images, err := container.NewImageStorage(ctx, cfg.Config)
	cancel()
	if err != nil {
		log.Fatalf("[Storage] Failed to initialize: %v", err)
	}

	checker := newHealthChecker(cfg)
	defer checker.Close()
	if err := checker.checkAll(context.Background()); err != nil {
		log.Fatalf("[Startup] Health check failed: %v", err)
	}

	srv := setupAsynqServer(cfg, initializeHandlers(images))
	if err := srv.Start(); err != nil {
		log.Fatalf("[Worker] Failed: %v", err)
	}
	log.Printf("[Worker] Processing with concurrency %d", cfg.concurrency())

	health := startHealthCheckServer(cfg.HealthPort, checker)

	waitForShutdown(srv, health)
}

func waitForShutdown(srv *asynqServer, health interface{ Shutdown(context.Context) error }) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[Shutdown] Gracefully stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = health.Shutdown(ctx)
	srv.Shutdown()
	log.Println("[Shutdown] Stopped")
}
