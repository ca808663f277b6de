package service

import (
	"context"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

type settingsService struct {
	repo repository.SettingsRepository
	ws   *Workspace
}

func NewSettingsService(repo repository.SettingsRepository, ws *Workspace) SettingsService {
	return &settingsService{repo: repo, ws: ws}
}

func (s *settingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.LoadSettings(ctx)
}

func (s *settingsService) Update(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		s.ws.record("settings.update", err)
		return err
	}
	if settings.Currency == nil {
		stored, err := s.repo.LoadSettings(ctx)
		if err != nil {
			return err
		}
		settings.Currency = stored.Currency
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.ws.record("settings.update", nil, "company", settings.CompanyName)
	return nil
}
