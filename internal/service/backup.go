package service

import (
	"context"
	"encoding/json"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"
	"fleetdesk-backend/internal/storage"
	"fleetdesk-backend/internal/utils"
)

// backupArchive is the document uploaded per snapshot. Payloads are the raw
// snapshot bytes keyed by store key.
type backupArchive struct {
	CreatedAt string                     `json:"createdAt"`
	Backend   string                     `json:"backend"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

type backupService struct {
	backend repository.SnapshotBackend
	keys    repository.Keys
	storage storage.BackupStorage
	prefix  string
	ws      *Workspace
}

func NewBackupService(backend repository.SnapshotBackend, keys repository.Keys, store storage.BackupStorage, prefix string, ws *Workspace) BackupService {
	return &backupService{backend: backend, keys: keys, storage: store, prefix: prefix, ws: ws}
}

// Snapshot uploads the three store snapshots as one archive and returns its key.
func (s *backupService) Snapshot(ctx context.Context) (string, error) {
	now := s.ws.Now()
	archive := backupArchive{
		CreatedAt: utils.FormatDateTime(now),
		Backend:   s.backend.Name(),
		Snapshots: make(map[string]json.RawMessage),
	}
	for _, key := range s.allKeys() {
		payload, found, err := s.backend.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to read snapshot %s: %w", key, err)
		}
		if found && json.Valid(payload) {
			archive.Snapshots[key] = payload
		}
	}

	data, err := json.Marshal(archive)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	objectKey := storage.BackupKey(s.prefix, now)

	logger.ExternalServiceCall("backup", "upload", "key", objectKey, "bytes", len(data))
	err = s.storage.Upload(ctx, objectKey, data, "application/json")
	logger.ExternalServiceResult("backup", "upload", err, "key", objectKey)
	s.ws.record("backup.snapshot", err, "key", objectKey)
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	return objectKey, nil
}

func (s *backupService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.storage.List(ctx, s.prefix)
}

// Restore writes every snapshot of the archive back to the store and
// reloads the workspace.
func (s *backupService) Restore(ctx context.Context, key string) error {
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to download backup %s: %w", key, err)
	}
	var archive backupArchive
	if err := json.Unmarshal(data, &archive); err != nil || len(archive.Snapshots) == 0 {
		err = fmt.Errorf("%w: %s is not a snapshot archive", domain.ErrValidation, key)
		s.ws.record("backup.restore", err)
		return err
	}

	for _, k := range s.allKeys() {
		payload, ok := archive.Snapshots[k]
		if !ok {
			continue
		}
		if err := s.backend.Put(ctx, k, payload); err != nil {
			return fmt.Errorf("failed to restore snapshot %s: %w", k, err)
		}
	}
	if err := s.ws.Reload(ctx); err != nil {
		return err
	}
	s.ws.record("backup.restore", nil, "key", key, "created_at", archive.CreatedAt)
	logger.InfoContext(ctx, "Backup restored", "key", key, "customers", s.ws.Registry().Len())
	return nil
}

func (s *backupService) allKeys() []string {
	return []string{s.keys.Customers, s.keys.PendingProfiles, s.keys.Settings}
}
