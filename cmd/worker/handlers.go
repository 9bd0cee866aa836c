package main

import (
	"github.com/hibiken/asynq"

	bookJob "book-inventory-backend/internal/domains/book/job"
	"book-inventory-backend/internal/infrastructure/storage"
	"book-inventory-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteBookImage *bookJob.DeleteImageHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(images storage.ImageStorage) *HandlerRegistry {
	return &HandlerRegistry{
		deleteBookImage: bookJob.NewDeleteImageHandler(images),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteBookImage, h.deleteBookImage.ProcessTask)
}
