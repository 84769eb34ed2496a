package storage

import (
	"context"
	"fmt"

	"ytaudiobot/internal/config"
)

// NewStorage creates the configured cloud storage backend
func NewStorage(ctx context.Context, cfg *config.Config) (StorageInterface, error) {
	switch cfg.Storage.Backend {
	case "drive":
		storage, err := NewDriveStorage(ctx, &cfg.Drive)
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive storage: %w", err)
		}
		return storage, nil
	case "s3":
		storage, err := NewS3Storage(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
