package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"book-inventory-backend/internal/infrastructure/storage"
	"book-inventory-backend/internal/shared"
)

// DeleteImageHandler removes a book image that was replaced or orphaned.
// Deleting a reference that no longer exists succeeds.
type DeleteImageHandler struct {
	images storage.ImageStorage
}

func NewDeleteImageHandler(images storage.ImageStorage) *DeleteImageHandler {
	return &DeleteImageHandler{images: images}
}

func (h *DeleteImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteImage payload")
		// malformed payloads never succeed on retry
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Ref == "" {
		return fmt.Errorf("empty image reference: %w", asynq.SkipRetry)
	}

	log.Info().Str("ref", payload.Ref).Msg("Deleting book image")

	if err := h.images.Delete(ctx, payload.Ref); err != nil {
		log.Error().Err(err).Str("ref", payload.Ref).Msg("Failed to delete book image")
		return fmt.Errorf("delete image: %w", err)
	}

	log.Info().Str("ref", payload.Ref).Msg("Book image deleted")
	return nil
}
