package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo describes one stored backup.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BackupStorage defines the interface for snapshot backup backends.
// Supports the local filesystem and S3-compatible object stores.
type BackupStorage interface {
	// Upload stores data under key, replacing any previous object.
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// Download returns the full object stored under key.
	Download(ctx context.Context, key string) ([]byte, error)

	// List returns objects whose key starts with prefix, oldest first.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// BackupKey returns a unique, time-ordered key such as
// "snapshots/registry_20250301_020000_1a2b3c4d.json".
func BackupKey(prefix string, now time.Time) string {
	id := uuid.New().String()[:8]
	name := fmt.Sprintf("registry_%s_%s.json", now.UTC().Format("20060102_150405"), id)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
