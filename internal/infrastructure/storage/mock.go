package storage

import (
	"context"
	"fmt"
	"time"

	"book-inventory-backend/pkg/logger"
)

// MockStorage fabricates Google Cloud Storage style URLs without storing anything
type MockStorage struct {
	bucket string
	now    func() time.Time
}

func NewMockStorage(bucket string) *MockStorage {
	if bucket == "" {
		bucket = "cmpc-libros-bucket"
	}
	return &MockStorage{bucket: bucket, now: time.Now}
}

func (s *MockStorage) Upload(_ context.Context, data []byte, filename string) (string, error) {
	key, err := objectKey(filename, s.now())
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
	logger.Info("[MOCK] Simulated image upload", map[string]interface{}{
		"filename": filename,
		"bytes":    len(data),
		"url":      url,
	})
	return url, nil
}

func (s *MockStorage) Delete(_ context.Context, ref string) error {
	logger.Info("[MOCK] Simulated image deletion", map[string]interface{}{
		"url": ref,
	})
	return nil
}
