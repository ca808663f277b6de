// Package referral links referrers to referred customers and applies the
// tiered discount that comes with each new link.
package referral

import (
	"github.com/shopspring/decimal"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/schedule"
)

var (
	firstReferralDiscount = decimal.NewFromInt(500)
	laterReferralDiscount = decimal.NewFromInt(250)
)

// SkipReason explains why a referral did nothing.
type SkipReason string

const (
	SkipReferrerNotFound SkipReason = "referrer_not_found"
	SkipReferredNotFound SkipReason = "referred_not_found"
	SkipAlreadyLinked    SkipReason = "already_linked"
	SkipSelfReferral     SkipReason = "self_referral"
)

// Outcome reports what ApplyReferral or SetReferrer did.
type Outcome struct {
	Applied  bool
	Discount string
	Skipped  SkipReason
}

// Kind maps the outcome for callers that render messages by kind.
func (o Outcome) Kind() domain.Kind {
	if o.Skipped != "" {
		return domain.KindNoOp
	}
	return domain.KindOK
}

// TierDiscount returns the discount earned by a referrer that already has
// prior referrals.
func TierDiscount(prior int) string {
	if prior == 0 {
		return money.Format(firstReferralDiscount)
	}
	return money.Format(laterReferralDiscount)
}

// ApplyReferral links referredID to referrerID and discounts the referrer.
// Missing records, self-referral and an existing link are skips, not errors.
// An error is returned only when a resulting record fails validation, in
// which case reg is returned unchanged.
func ApplyReferral(reg registry.Registry, referrerID, referredID string) (registry.Registry, Outcome, error) {
	if referrerID == referredID {
		return reg, Outcome{Skipped: SkipSelfReferral}, nil
	}
	referrer, ok := reg.Find(referrerID)
	if !ok {
		return reg, Outcome{Skipped: SkipReferrerNotFound}, nil
	}
	referred, ok := reg.Find(referredID)
	if !ok {
		return reg, Outcome{Skipped: SkipReferredNotFound}, nil
	}
	if referrer.HasReferral(referredID) {
		return reg, Outcome{Skipped: SkipAlreadyLinked}, nil
	}

	discount := TierDiscount(len(referrer.Referrals))
	referrer.Referrals = append(referrer.Referrals, referredID)
	referrer = ApplyDiscount(referrer, discount)
	referred.ReferredBy = referrerID

	next, err := reg.UpsertAll([]domain.Customer{referrer, referred})
	if err != nil {
		return reg, Outcome{}, err
	}
	return next, Outcome{Applied: true, Discount: discount}, nil
}

// ApplyDiscount subtracts amount from the current total, floored at zero, and
// rewrites the weekly price and every slot amount. The first application
// records the pre-discount total.
func ApplyDiscount(c domain.Customer, amount string) domain.Customer {
	out := c.Clone()
	if !out.DiscountApplied && out.OriginalTotalPrice == "" {
		out.OriginalTotalPrice = out.TotalPrice
	}

	discount := money.Parse(amount)
	total := money.Parse(out.TotalPrice).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	weekly := total.Div(decimal.NewFromInt(domain.SlotsPerSchedule))

	out.TotalPrice = money.Format(total)
	out.WeeklyPrice = money.Format(weekly)
	out.DiscountAmount = money.Format(discount)
	out.DiscountApplied = true

	if len(out.Payments) == 0 {
		out.Payments = schedule.Unscheduled(out.WeeklyPrice, false)
	} else {
		out.Payments = schedule.RecomputeAmounts(out.Payments, out.WeeklyPrice)
	}
	return out
}

// SetReferrer overrides the referredBy link of customerID. An empty
// referrerID clears the link and leaves discounts alone; otherwise the link
// is set and the referral runs through ApplyReferral.
func SetReferrer(reg registry.Registry, customerID, referrerID string) (registry.Registry, Outcome, error) {
	c, ok := reg.Find(customerID)
	if !ok {
		return reg, Outcome{Skipped: SkipReferredNotFound}, nil
	}

	if referrerID == "" {
		c.ReferredBy = ""
		next, err := reg.Upsert(c)
		if err != nil {
			return reg, Outcome{}, err
		}
		return next, Outcome{}, nil
	}

	if referrerID == customerID {
		return reg, Outcome{Skipped: SkipSelfReferral}, nil
	}
	if _, ok := reg.Find(referrerID); !ok {
		return reg, Outcome{Skipped: SkipReferrerNotFound}, nil
	}

	c.ReferredBy = referrerID
	linked, err := reg.Upsert(c)
	if err != nil {
		return reg, Outcome{}, err
	}
	next, outcome, err := ApplyReferral(linked, referrerID, customerID)
	if err != nil {
		return reg, Outcome{}, err
	}
	return next, outcome, nil
}
