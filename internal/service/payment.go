package service

import (
	"context"
	"fmt"
	"strings"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/schedule"
)

type paymentService struct {
	ws *Workspace
}

func NewPaymentService(ws *Workspace) PaymentService {
	return &paymentService{ws: ws}
}

// UpdateSlot edits one week of loginID's schedule. An empty date defaults to
// the next Friday and an empty amount to the slot's current amount.
func (s *paymentService) UpdateSlot(ctx context.Context, loginID string, week int, upd schedule.SlotUpdate) (domain.Customer, error) {
	if strings.TrimSpace(upd.Date) == "" {
		upd.Date = schedule.NextPaymentDate(s.ws.Now())
	}

	var updated domain.Customer
	err := s.ws.apply(ctx, "payment.update_slot", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		c, ok := reg.Find(loginID)
		if !ok {
			return reg, domain.KindNotFound, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
		}
		if strings.TrimSpace(upd.Amount) == "" {
			upd.Amount = slotAmount(c.Payments, week, c.WeeklyPrice)
		}
		payments, err := schedule.UpdateSlot(c.Payments, week, upd)
		if err != nil {
			return reg, domain.KindOf(err), err
		}
		c.Payments = payments
		next, err := reg.Upsert(c)
		updated = c
		return next, domain.KindOK, err
	}, "login_id", loginID, "week", week, "status", upd.Status)
	if err != nil {
		return domain.Customer{}, err
	}
	return updated, nil
}

// NextSlot returns the week that should be edited next for loginID.
func (s *paymentService) NextSlot(ctx context.Context, loginID string) (int, bool, error) {
	c, ok := s.ws.Registry().Find(loginID)
	if !ok {
		return 0, false, fmt.Errorf("customer %q: %w", loginID, domain.ErrNotFound)
	}
	week, found := schedule.NextPendingOrUnpaid(c.Payments)
	return week, found, nil
}

func slotAmount(payments []domain.PaymentSlot, week int, fallback string) string {
	for _, p := range payments {
		if p.WeekNumber == week && p.Amount != "" {
			return p.Amount
		}
	}
	return fallback
}
