package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"book-inventory-backend/internal/infrastructure/queue"
	"book-inventory-backend/internal/shared"
)

type mockImageStorage struct {
	mock.Mock
}

func (m *mockImageStorage) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

func (m *mockImageStorage) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func TestDeleteImageHandler(t *testing.T) {
	images := new(mockImageStorage)
	images.On("Delete", mock.Anything, "https://img/old.png").Return(nil).Once()

	task, err := queue.NewDeleteImageTask("https://img/old.png")
	assert.NoError(t, err)

	assert.NoError(t, NewDeleteImageHandler(images).ProcessTask(context.Background(), task))
	images.AssertExpectations(t)
}

func TestDeleteImageHandler_StorageFailureRetries(t *testing.T) {
	images := new(mockImageStorage)
	images.On("Delete", mock.Anything, "ref").Return(errors.New("timeout"))

	task, _ := queue.NewDeleteImageTask("ref")
	err := NewDeleteImageHandler(images).ProcessTask(context.Background(), task)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestDeleteImageHandler_BadPayloadSkipsRetry(t *testing.T) {
	images := new(mockImageStorage)
	h := NewDeleteImageHandler(images)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeDeleteBookImage, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeDeleteBookImage, []byte(`{"ref":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
