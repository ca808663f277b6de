package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/renewal"
	"fleetdesk-backend/internal/textblock"
)

// DueRenewal is an active customer whose return date falls inside a window.
type DueRenewal struct {
	Customer domain.Customer
	Level    renewal.Level
	DaysLeft int
}

type renewalService struct {
	ws *Workspace
}

func NewRenewalService(ws *Workspace) RenewalService {
	return &renewalService{ws: ws}
}

// Renew extends loginID's return date and returns the updated record with
// the notice to forward to the operator.
func (s *renewalService) Renew(ctx context.Context, loginID, newReturnDate, cardBrand, cardSuffix string) (domain.Customer, string, error) {
	cardBrand = strings.TrimSpace(cardBrand)
	cardSuffix = strings.ToUpper(strings.TrimSpace(cardSuffix))
	if cardSuffix != "" {
		if err := renewal.ValidateCardSuffix(cardBrand, cardSuffix); err != nil {
			s.ws.record("renewal.renew", err, "login_id", loginID)
			return domain.Customer{}, "", err
		}
	}

	now := s.ws.Now()
	var updated domain.Customer
	err := s.ws.apply(ctx, "renewal.renew", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		c, ok := reg.Find(loginID)
		if !ok {
			return reg, domain.KindNotFound, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
		}
		renewed, err := renewal.Record(c, newReturnDate, cardBrand, cardSuffix, now)
		if err != nil {
			return reg, domain.KindOf(err), err
		}
		next, err := reg.Upsert(renewed)
		updated = renewed
		return next, domain.KindOK, err
	}, "login_id", loginID, "new_return_date", newReturnDate)
	if err != nil {
		return domain.Customer{}, "", err
	}
	return updated, textblock.RenewalNotice(updated), nil
}

// Due lists active customers returning within withinDays, most urgent first.
// Overdue customers are included.
func (s *renewalService) Due(ctx context.Context, withinDays int) []DueRenewal {
	now := s.ws.Now()
	var due []DueRenewal
	for _, c := range s.ws.Registry().All() {
		if !c.IsActive() {
			continue
		}
		level, days := renewal.Urgency(c.ReturnDate, now)
		if level == renewal.LevelUnknown || days > withinDays {
			continue
		}
		due = append(due, DueRenewal{Customer: c, Level: level, DaysLeft: days})
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].DaysLeft < due[j].DaysLeft })
	return due
}
