// Package storage stages uploaded files for the duration of one analysis.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.StorageBackend.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocalStorage(cfg.StorageTempDir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// UploadKey is where an upload is staged: uploads/<id>/<filename>.
func UploadKey(filename string) string {
	return fmt.Sprintf("uploads/%s/%s", utils.GenerateID(), filename)
}
