package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
)

// ImageStorage turns image bytes into a reference (URL) and removes references.
// Deleting a reference that does not exist is a no-op.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// objectKey renders books/<unixMillis>-<16 hex chars><ext>
func objectKey(filename string, now time.Time) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate object id: %w", err)
	}
	return fmt.Sprintf("books/%d-%s%s", now.UnixMilli(), hex.EncodeToString(buf), filepath.Ext(filename)), nil
}
