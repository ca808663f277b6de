package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
)

type snapshots struct {
	backend SnapshotBackend
	key     string
}

func (s snapshots) load(ctx context.Context, dest any) (bool, error) {
	logger.StoreCall(s.backend.Name(), "get", "key", s.key)
	raw, found, err := s.backend.Get(ctx, s.key)
	logger.StoreResult(s.backend.Name(), "get", err, "key", s.key, "found", found)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !found || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return true, nil
}

func (s snapshots) save(ctx context.Context, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	logger.StoreCall(s.backend.Name(), "put", "key", s.key, "bytes", len(raw))
	err = s.backend.Put(ctx, s.key, raw)
	logger.StoreResult(s.backend.Name(), "put", err, "key", s.key)
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

type customerRepository struct{ snapshots }

func (r *customerRepository) LoadCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if _, err := r.load(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) SaveCustomers(ctx context.Context, customers []domain.Customer) error {
	if customers == nil {
		customers = []domain.Customer{}
	}
	return r.save(ctx, customers)
}

type pendingProfileRepository struct{ snapshots }

func (r *pendingProfileRepository) LoadPendingProfiles(ctx context.Context) ([]domain.PendingProfile, error) {
	var profiles []domain.PendingProfile
	if _, err := r.load(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *pendingProfileRepository) SavePendingProfiles(ctx context.Context, profiles []domain.PendingProfile) error {
	if profiles == nil {
		profiles = []domain.PendingProfile{}
	}
	return r.save(ctx, profiles)
}

type settingsRepository struct{ snapshots }

// LoadSettings returns the defaults when nothing was saved yet.
func (r *settingsRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if _, err := r.load(ctx, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return r.save(ctx, settings)
}
