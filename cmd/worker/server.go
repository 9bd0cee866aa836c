package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
	mux *asynq.ServeMux
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(cfg *WorkerConfig, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		cfg.redisOpt(),
		asynq.Config{
			Queues:      cfg.queues(),
			Concurrency: cfg.concurrency(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Printf("[Asynq] Task failed - Type: %s, Retry: %d/%d, Error: %v", task.Type(), retried, maxRetry, err)
			}),
		},
	)

	return &asynqServer{Server: srv, mux: mux}
}

// Start runs the processor without blocking
func (s *asynqServer) Start() error {
	log.Println("[Worker] Starting...")
	return s.Server.Start(s.mux)
}

// Shutdown waits for in-flight tasks up to the asynq shutdown timeout
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Println("[Worker] Gracefully stopped")
}
