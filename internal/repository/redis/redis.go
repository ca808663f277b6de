// Package redis keeps the registry snapshots as plain string keys, one JSON
// document per key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"fleetdesk-backend/internal/repository"
)

// NewClient creates a Redis client and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

type snapshotBackend struct {
	client *goredis.Client
}

func NewSnapshotBackend(client *goredis.Client) repository.SnapshotBackend {
	return &snapshotBackend{client: client}
}

// NewStore builds the repositories on Redis keys.
func NewStore(client *goredis.Client, keys repository.Keys) *repository.Store {
	return repository.NewStore(NewSnapshotBackend(client), keys)
}

func (b *snapshotBackend) Name() string { return "redis" }

func (b *snapshotBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *snapshotBackend) Put(ctx context.Context, key string, payload []byte) error {
	return b.client.Set(ctx, key, payload, 0).Err()
}

func (b *snapshotBackend) Close() error {
	return b.client.Close()
}
