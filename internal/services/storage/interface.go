package storage

import (
	"context"
	"io"

	"ytaudiobot/internal/models"
)

// StorageInterface defines the common interface for cloud upload backends
type StorageInterface interface {
	// Backend names the configured backend ("drive" or "s3")
	Backend() string

	// Upload stores one file in the configured folder and returns the
	// remote identifier plus a shareable link when the backend has one
	Upload(ctx context.Context, name string, data io.Reader, contentType string) (*models.UploadResult, error)

	// Ping verifies the backend is reachable with the configured credentials
	Ping(ctx context.Context) error
}
