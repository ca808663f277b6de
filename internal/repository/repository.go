package repository

import (
	"context"

	"fleetdesk-backend/internal/domain"
)

type CustomerRepository interface {
	LoadCustomers(ctx context.Context) ([]domain.Customer, error)
	SaveCustomers(ctx context.Context, customers []domain.Customer) error
}

type PendingProfileRepository interface {
	LoadPendingProfiles(ctx context.Context) ([]domain.PendingProfile, error)
	SavePendingProfiles(ctx context.Context, profiles []domain.PendingProfile) error
}

type SettingsRepository interface {
	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// SnapshotBackend stores opaque whole-collection payloads by key. Every
// backend (file, redis, postgres) implements it; the typed repositories are
// layered on top.
type SnapshotBackend interface {
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	Put(ctx context.Context, key string, payload []byte) error
	Name() string
	Close() error
}

// Keys names the three snapshots.
type Keys struct {
	Customers       string
	PendingProfiles string
	Settings        string
}

// KeysWithPrefix returns "<prefix>-entries", "<prefix>-pending-profiles"
// and "<prefix>-settings".
func KeysWithPrefix(prefix string) Keys {
	if prefix == "" {
		prefix = "cadastro"
	}
	return Keys{
		Customers:       prefix + "-entries",
		PendingProfiles: prefix + "-pending-profiles",
		Settings:        prefix + "-settings",
	}
}

// Store bundles the repositories behind one backend.
type Store struct {
	backend SnapshotBackend
	CustomerRepository
	PendingProfileRepository
	SettingsRepository
}

func NewStore(backend SnapshotBackend, keys Keys) *Store {
	return &Store{
		backend:                  backend,
		CustomerRepository:       &customerRepository{snapshots{backend, keys.Customers}},
		PendingProfileRepository: &pendingProfileRepository{snapshots{backend, keys.PendingProfiles}},
		SettingsRepository:       &settingsRepository{snapshots{backend, keys.Settings}},
	}
}

// Backend exposes the underlying backend, e.g. for raw backups.
func (s *Store) Backend() SnapshotBackend {
	return s.backend
}

func (s *Store) Close() error {
	return s.backend.Close()
}
