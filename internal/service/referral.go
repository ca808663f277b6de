package service

import (
	"context"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/referral"
	"fleetdesk-backend/internal/registry"
)

type referralService struct {
	ws *Workspace
}

func NewReferralService(ws *Workspace) ReferralService {
	return &referralService{ws: ws}
}

// Refer is the dialog entry point: only customers flagged canRefer may
// refer. Missing records fall through to the ledger's skip outcomes.
func (s *referralService) Refer(ctx context.Context, referrerID, referredID string) (referral.Outcome, error) {
	if referrer, ok := s.ws.Registry().Find(referrerID); ok && !referrer.CanRefer {
		err := fmt.Errorf("%w: customer %q cannot refer", domain.ErrValidation, referrerID)
		s.ws.record("referral.refer", err, "referrer", referrerID, "referred", referredID)
		return referral.Outcome{}, err
	}
	return s.run(ctx, "referral.refer", referrerID, referredID, referral.ApplyReferral)
}

func (s *referralService) ApplyReferral(ctx context.Context, referrerID, referredID string) (referral.Outcome, error) {
	return s.run(ctx, "referral.apply", referrerID, referredID, referral.ApplyReferral)
}

// SetReferrer links customerID to referrerID, or clears the link when
// referrerID is empty.
func (s *referralService) SetReferrer(ctx context.Context, customerID, referrerID string) (referral.Outcome, error) {
	var outcome referral.Outcome
	err := s.ws.apply(ctx, "referral.set_referrer", func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		next, out, err := referral.SetReferrer(reg, customerID, referrerID)
		outcome = out
		if err != nil {
			return reg, domain.KindOf(err), err
		}
		kind := out.Kind()
		if out.Skipped == referral.SkipAlreadyLinked {
			// the referredBy link may still have changed
			kind = domain.KindOK
		}
		return next, kind, nil
	}, "customer", customerID, "referrer", referrerID)
	return outcome, err
}

func (s *referralService) run(ctx context.Context, operation, referrerID, referredID string,
	fn func(registry.Registry, string, string) (registry.Registry, referral.Outcome, error)) (referral.Outcome, error) {
	var outcome referral.Outcome
	err := s.ws.apply(ctx, operation, func(reg registry.Registry) (registry.Registry, domain.Kind, error) {
		next, out, err := fn(reg, referrerID, referredID)
		outcome = out
		if err != nil {
			return reg, domain.KindOf(err), err
		}
		return next, out.Kind(), nil
	}, "referrer", referrerID, "referred", referredID)
	return outcome, err
}
