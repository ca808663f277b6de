package storage

import (
	"context"
	"fmt"
)

// Config holds backup storage configuration
type Config struct {
	Type            string // "local" or "s3"
	Dir             string // Directory for local storage
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
}

// New builds the backup storage selected by cfg.Type.
func New(ctx context.Context, cfg Config) (BackupStorage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.Dir)
	case "s3":
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(client, cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown backup storage type: %s", cfg.Type)
	}
}
