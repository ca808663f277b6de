// Package file keeps each registry snapshot in a JSON file under one
// directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fleetdesk-backend/internal/repository"
)

type snapshotBackend struct {
	dir string
}

// NewSnapshotBackend creates dir if needed.
func NewSnapshotBackend(dir string) (repository.SnapshotBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &snapshotBackend{dir: dir}, nil
}

// NewStore builds the repositories on files under dir.
func NewStore(dir string, keys repository.Keys) (*repository.Store, error) {
	backend, err := NewSnapshotBackend(dir)
	if err != nil {
		return nil, err
	}
	return repository.NewStore(backend, keys), nil
}

func (b *snapshotBackend) Name() string { return "file" }

func (b *snapshotBackend) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

func (b *snapshotBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, true, nil
}

// Put writes to a temp file and renames it so readers never see a partial
// snapshot.
func (b *snapshotBackend) Put(_ context.Context, key string, payload []byte) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (b *snapshotBackend) Close() error { return nil }
