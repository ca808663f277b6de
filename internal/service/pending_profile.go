package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/repository"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/utils"
)

type pendingProfileService struct {
	mu   sync.Mutex
	repo repository.PendingProfileRepository
	ws   *Workspace
}

func NewPendingProfileService(repo repository.PendingProfileRepository, ws *Workspace) PendingProfileService {
	return &pendingProfileService{repo: repo, ws: ws}
}

func (s *pendingProfileService) Add(ctx context.Context, p domain.PendingProfile) (domain.PendingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.New().String()
	p.CreatedAt = utils.FormatDateTime(s.ws.Now())
	if p.Status == "" {
		p.Status = domain.PendingStatusPending
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		s.ws.record("pending.add", err)
		return domain.PendingProfile{}, err
	}

	profiles, err := s.repo.LoadPendingProfiles(ctx)
	if err != nil {
		return domain.PendingProfile{}, err
	}
	if err := s.repo.SavePendingProfiles(ctx, append(profiles, p)); err != nil {
		return domain.PendingProfile{}, err
	}
	s.ws.record("pending.add", nil, "id", p.ID)
	return p, nil
}

// Update replaces the editable fields of the profile with p.ID.
func (s *pendingProfileService) Update(ctx context.Context, p domain.PendingProfile) error {
	return s.mutate(ctx, "pending.update", p.ID, func(current *domain.PendingProfile) error {
		p.CreatedAt = current.CreatedAt
		if p.Status == "" {
			p.Status = current.Status
		}
		if err := p.Validate(); err != nil {
			return err
		}
		*current = p
		return nil
	})
}

func (s *pendingProfileService) SetStatus(ctx context.Context, id string, status domain.PendingStatus) error {
	return s.mutate(ctx, "pending.set_status", id, func(current *domain.PendingProfile) error {
		next := *current
		next.Status = status
		if err := next.Validate(); err != nil {
			return err
		}
		*current = next
		return nil
	})
}

func (s *pendingProfileService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.repo.LoadPendingProfiles(ctx)
	if err != nil {
		return err
	}
	idx := indexOfProfile(profiles, id)
	if idx < 0 {
		err := fmt.Errorf("pending profile %q: %w", id, domain.ErrNotFound)
		s.ws.record("pending.remove", err)
		return err
	}
	profiles = append(profiles[:idx], profiles[idx+1:]...)
	if err := s.repo.SavePendingProfiles(ctx, profiles); err != nil {
		return err
	}
	s.ws.record("pending.remove", nil, "id", id)
	return nil
}

func (s *pendingProfileService) List(ctx context.Context) ([]domain.PendingProfile, error) {
	return s.repo.LoadPendingProfiles(ctx)
}

// Convert registers the profile as a draft customer with an unscheduled plan
// and drops the profile. The profile must carry a loginId not yet in use.
func (s *pendingProfileService) Convert(ctx context.Context, id string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.repo.LoadPendingProfiles(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	idx := indexOfProfile(profiles, id)
	if idx < 0 {
		err := fmt.Errorf("pending profile %q: %w", id, domain.ErrNotFound)
		s.ws.record("pending.convert", err)
		return domain.Customer{}, err
	}
	p := profiles[idx]

	draft := domain.Customer{
		LoginID:     strings.TrimSpace(p.LoginID),
		Name:        p.Name,
		TotalPrice:  "R$ 0,00",
		WeeklyPrice: "R$ 0,00",
		Notes:       draftNotes(p),
		Active:      domain.BoolPtr(true),
	}
	draft.Payments = schedule.Initialize(draft.PickupDate, draft.WeeklyPrice)

	err = s.ws.apply(ctx, "pending.convert", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		if draft.LoginID == "" {
			return reg, domain.KindValidation, fmt.Errorf("%w: pending profile %q has no loginId", domain.ErrValidation, id)
		}
		if _, exists := reg.Find(draft.LoginID); exists {
			return reg, domain.KindValidation, fmt.Errorf("%w: customer %q already registered", domain.ErrValidation, draft.LoginID)
		}
		next, err := reg.Upsert(draft)
		return next, domain.KindOK, err
	}, "id", id, "login_id", draft.LoginID)
	if err != nil {
		return domain.Customer{}, err
	}

	profiles = append(profiles[:idx], profiles[idx+1:]...)
	if err := s.repo.SavePendingProfiles(ctx, profiles); err != nil {
		return domain.Customer{}, fmt.Errorf("customer registered but profile not removed: %w", err)
	}
	return draft, nil
}

func (s *pendingProfileService) mutate(ctx context.Context, operation, id string, fn func(*domain.PendingProfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.repo.LoadPendingProfiles(ctx)
	if err != nil {
		return err
	}
	idx := indexOfProfile(profiles, id)
	if idx < 0 {
		err := fmt.Errorf("pending profile %q: %w", id, domain.ErrNotFound)
		s.ws.record(operation, err)
		return err
	}
	if err := fn(&profiles[idx]); err != nil {
		s.ws.record(operation, err, "id", id)
		return err
	}
	if err := s.repo.SavePendingProfiles(ctx, profiles); err != nil {
		return err
	}
	s.ws.record(operation, nil, "id", id)
	return nil
}

func indexOfProfile(profiles []domain.PendingProfile, id string) int {
	for i, p := range profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func draftNotes(p domain.PendingProfile) string {
	var parts []string
	if p.Contact != "" {
		parts = append(parts, "Contato: "+p.Contact)
	}
	if p.Notes != "" {
		parts = append(parts, p.Notes)
	}
	return strings.Join(parts, "\n")
}
