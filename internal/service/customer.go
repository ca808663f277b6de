package service

import (
	"context"
	"fmt"
	"strings"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/finance"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/renewal"
	"fleetdesk-backend/internal/schedule"
)

// StateFilter selects customers by lifecycle flag.
type StateFilter string

const (
	StateAll      StateFilter = "all"
	StateActive   StateFilter = "active"
	StateInactive StateFilter = "inactive"
)

type ListFilter struct {
	State StateFilter
	Query string // case-insensitive match on name or loginId
}

// CustomerView is a customer plus the derived fields a listing shows.
type CustomerView struct {
	Customer     domain.Customer
	ReferrerName string
	Payment      finance.CustomerStatus
	Urgency      renewal.Level
	DaysLeft     int
}

type customerService struct {
	ws *Workspace
}

func NewCustomerService(ws *Workspace) CustomerService {
	return &customerService{ws: ws}
}

// Register upserts c. A record without payments gets its initial schedule.
func (s *customerService) Register(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if len(c.Payments) == 0 {
		c.Payments = schedule.Initialize(c.PickupDate, c.WeeklyPrice)
	}
	err := s.ws.apply(ctx, "customer.register", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		next, err := reg.Upsert(c)
		return next, domain.KindOK, err
	}, "login_id", c.LoginID)
	if err != nil {
		return domain.Customer{}, err
	}
	return s.Get(ctx, c.LoginID)
}

// Update replaces an existing record. Payments and renewal history are
// carried over when c leaves them empty.
func (s *customerService) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	err := s.ws.apply(ctx, "customer.update", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		current, ok := reg.Find(c.LoginID)
		if !ok {
			return reg, domain.KindNotFound, fmt.Errorf("customer %q: %w", c.LoginID, domain.ErrNotFound)
		}
		if len(c.Payments) == 0 {
			c.Payments = current.Payments
		}
		if len(c.Renewals) == 0 {
			c.Renewals = current.Renewals
		}
		next, err := reg.Upsert(c)
		return next, domain.KindOK, err
	}, "login_id", c.LoginID)
	if err != nil {
		return domain.Customer{}, err
	}
	return s.Get(ctx, c.LoginID)
}

// Remove deletes the record. References held by other customers are left as is.
func (s *customerService) Remove(ctx context.Context, loginID string) error {
	return s.ws.apply(ctx, "customer.remove", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		if _, ok := reg.Find(loginID); !ok {
			return reg, domain.KindNotFound, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
		}
		return reg.Remove(loginID), domain.KindOK, nil
	}, "login_id", loginID)
}

func (s *customerService) Get(ctx context.Context, loginID string) (domain.Customer, error) {
	c, ok := s.ws.Registry().Find(loginID)
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
	}
	return c, nil
}

func (s *customerService) List(ctx context.Context, filter ListFilter) []CustomerView {
	reg := s.ws.Registry()
	now := s.ws.Now()
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var views []CustomerView
	for _, c := range reg.All() {
		switch filter.State {
		case StateActive:
			if !c.IsActive() {
				continue
			}
		case StateInactive:
			if c.IsActive() {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.LoginID), query) {
			continue
		}
		level, days := renewal.Urgency(c.ReturnDate, now)
		views = append(views, CustomerView{
			Customer:     c,
			ReferrerName: reg.ResolveReferrerName(c),
			Payment:      finance.StatusOf(c),
			Urgency:      level,
			DaysLeft:     days,
		})
	}
	return views
}

func (s *customerService) SetStatus(ctx context.Context, loginID string, active bool, reason string) (domain.Customer, error) {
	err := s.ws.apply(ctx, "customer.set_status", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		next, err := reg.SetStatus(loginID, active, reason)
		return next, domain.KindOK, err
	}, "login_id", loginID, "active", active)
	if err != nil {
		return domain.Customer{}, err
	}
	return s.Get(ctx, loginID)
}
