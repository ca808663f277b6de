package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"
)

type snapshotBackend struct {
	db *sql.DB
}

// NewSnapshotBackend stores each snapshot as one JSONB row keyed by name.
func NewSnapshotBackend(db *sql.DB) repository.SnapshotBackend {
	return &snapshotBackend{db: db}
}

func (b *snapshotBackend) Name() string { return "postgres" }

func (b *snapshotBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT payload FROM snapshots WHERE key = $1`
	logger.DatabaseCall("select_snapshot", query, "key", key)

	var payload []byte
	err := b.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *snapshotBackend) Put(ctx context.Context, key string, payload []byte) error {
	query := `INSERT INTO snapshots (key, payload, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	logger.DatabaseCall("upsert_snapshot", query, "key", key)

	res, err := b.db.ExecContext(ctx, query, key, payload, time.Now().UTC())
	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}
	logger.DatabaseResult("upsert_snapshot", rows, err)
	return err
}

func (b *snapshotBackend) Close() error {
	return b.db.Close()
}
