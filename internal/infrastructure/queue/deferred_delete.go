package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"book-inventory-backend/internal/infrastructure/storage"
	"book-inventory-backend/internal/shared"
	"book-inventory-backend/pkg/logger"
)

// Enqueuer is the part of *asynq.Client used here
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DeferredDeleteStorage uploads synchronously but hands deletions to the worker.
// A successful Delete only means the task was queued.
type DeferredDeleteStorage struct {
	storage.ImageStorage
	client   Enqueuer
	maxRetry int
}

func NewDeferredDeleteStorage(inner storage.ImageStorage, client Enqueuer, maxRetry int) *DeferredDeleteStorage {
	return &DeferredDeleteStorage{
		ImageStorage: inner,
		client:       client,
		maxRetry:     maxRetry,
	}
}

func (s *DeferredDeleteStorage) Delete(ctx context.Context, ref string) error {
	task, err := NewDeleteImageTask(ref)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(s.maxRetry),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteBookImage, err)
	}

	logger.Info("Image deletion queued", map[string]interface{}{
		"task_id": info.ID,
		"ref":     ref,
	})
	return nil
}

func NewDeleteImageTask(ref string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.DeleteImagePayload{Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(shared.TypeDeleteBookImage, payload), nil
}
