package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/schedule"
)

func newCustomer(id, name, total, weekly string) domain.Customer {
	return domain.Customer{
		LoginID:     id,
		Name:        name,
		TotalPrice:  total,
		WeeklyPrice: weekly,
		CanRefer:    true,
		PickupDate:  "15/01/2024",
		Payments:    schedule.Initialize("15/01/2024", weekly),
	}
}

func seed(t *testing.T, customers ...domain.Customer) registry.Registry {
	t.Helper()
	reg, err := registry.New(nil).UpsertAll(customers)
	require.NoError(t, err)
	return reg
}

func TestTierDiscount(t *testing.T) {
	assert.Equal(t, "R$ 500,00", TierDiscount(0))
	for _, n := range []int{1, 2, 10} {
		assert.Equal(t, "R$ 250,00", TierDiscount(n))
	}
}

func TestApplyReferral_Scenario(t *testing.T) {
	reg := seed(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
	)

	next, outcome, err := ApplyReferral(reg, "A", "B")
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.Equal(t, "R$ 500,00", outcome.Discount)
	assert.Equal(t, domain.KindOK, outcome.Kind())

	a, _ := next.Find("A")
	assert.Equal(t, "R$ 2.000,00", a.TotalPrice)
	assert.Equal(t, "R$ 500,00", a.WeeklyPrice)
	assert.Equal(t, "R$ 500,00", a.DiscountAmount)
	assert.Equal(t, "R$ 2.500,00", a.OriginalTotalPrice)
	assert.True(t, a.DiscountApplied)
	assert.Equal(t, []string{"B"}, a.Referrals)
	for _, slot := range a.Payments {
		assert.Equal(t, "R$ 500,00", slot.Amount)
	}

	b, _ := next.Find("B")
	assert.Equal(t, "A", b.ReferredBy)

	// input registry untouched
	a0, _ := reg.Find("A")
	assert.Equal(t, "R$ 2.500,00", a0.TotalPrice)
}

func TestApplyReferral_Idempotent(t *testing.T) {
	reg := seed(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
	)

	once, _, err := ApplyReferral(reg, "A", "B")
	require.NoError(t, err)
	twice, outcome, err := ApplyReferral(once, "A", "B")
	require.NoError(t, err)

	assert.Equal(t, SkipAlreadyLinked, outcome.Skipped)
	assert.Equal(t, domain.KindNoOp, outcome.Kind())
	assert.Equal(t, once.All(), twice.All())
}

func TestApplyReferral_Skips(t *testing.T) {
	reg := seed(t, newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"))

	tests := []struct {
		name     string
		referrer string
		referred string
		reason   SkipReason
	}{
		{"Self", "A", "A", SkipSelfReferral},
		{"Missing referrer", "X", "A", SkipReferrerNotFound},
		{"Missing referred", "A", "X", SkipReferredNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, outcome, err := ApplyReferral(reg, tt.referrer, tt.referred)
			require.NoError(t, err)
			assert.Equal(t, tt.reason, outcome.Skipped)
			assert.Equal(t, reg.All(), next.All())
		})
	}
}

func TestApplyReferral_Stacking(t *testing.T) {
	reg := seed(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.000,00", "R$ 250,00"),
		newCustomer("C", "Carla", "R$ 1.000,00", "R$ 250,00"),
		newCustomer("D", "Dani", "R$ 1.000,00", "R$ 250,00"),
	)

	prev := money.Parse("R$ 2.500,00")
	for i, referred := range []string{"B", "C", "D"} {
		var err error
		var outcome Outcome
		reg, outcome, err = ApplyReferral(reg, "A", referred)
		require.NoError(t, err)
		assert.Equal(t, TierDiscount(i), outcome.Discount)

		a, _ := reg.Find("A")
		total := money.Parse(a.TotalPrice)
		assert.True(t, total.LessThan(prev), "total must decrease")
		assert.Equal(t, "R$ 2.500,00", a.OriginalTotalPrice)
		prev = total
	}

	a, _ := reg.Find("A")
	assert.Equal(t, "R$ 1.500,00", a.TotalPrice)
	assert.Equal(t, "R$ 375,00", a.WeeklyPrice)
	assert.Equal(t, "R$ 250,00", a.DiscountAmount)
}

func TestApplyDiscount(t *testing.T) {
	t.Run("Floors at zero", func(t *testing.T) {
		c := newCustomer("A", "Ana", "R$ 300,00", "R$ 75,00")
		out := ApplyDiscount(c, "R$ 500,00")
		assert.Equal(t, "R$ 0,00", out.TotalPrice)
		assert.Equal(t, "R$ 0,00", out.WeeklyPrice)
		assert.Equal(t, "R$ 300,00", out.OriginalTotalPrice)
	})

	t.Run("Keeps slot statuses", func(t *testing.T) {
		c := newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00")
		var err error
		c.Payments, err = schedule.UpdateSlot(c.Payments, 3, schedule.SlotUpdate{Status: domain.PaymentStatusPaid, Amount: "R$ 625,00", Date: "19/01/2024"})
		require.NoError(t, err)

		out := ApplyDiscount(c, "R$ 500,00")
		assert.Equal(t, domain.PaymentStatusPaid, out.Payments[2].Status)
		assert.Equal(t, "19/01/2024", out.Payments[2].Date)
		assert.Equal(t, "R$ 500,00", out.Payments[2].Amount)
		assert.Equal(t, "R$ 625,00", c.Payments[2].Amount)
	})

	t.Run("Missing schedule gets unpaid slots", func(t *testing.T) {
		c := domain.Customer{LoginID: "A", Name: "Ana", TotalPrice: "R$ 1.000,00"}
		out := ApplyDiscount(c, "R$ 250,00")
		require.Len(t, out.Payments, 4)
		for i, slot := range out.Payments {
			assert.Equal(t, i+1, slot.WeekNumber)
			assert.Equal(t, domain.PaymentStatusUnpaid, slot.Status)
			assert.Equal(t, "R$ 187,50", slot.Amount)
		}
	})
}

func TestSetReferrer(t *testing.T) {
	base := seed(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
	)

	t.Run("Set runs the referral", func(t *testing.T) {
		reg, outcome, err := SetReferrer(base, "B", "A")
		require.NoError(t, err)
		assert.True(t, outcome.Applied)

		a, _ := reg.Find("A")
		b, _ := reg.Find("B")
		assert.Equal(t, "A", b.ReferredBy)
		assert.Equal(t, "R$ 2.000,00", a.TotalPrice)
	})

	t.Run("Clear keeps discounts", func(t *testing.T) {
		reg, _, err := SetReferrer(base, "B", "A")
		require.NoError(t, err)
		reg, outcome, err := SetReferrer(reg, "B", "")
		require.NoError(t, err)
		assert.False(t, outcome.Applied)

		a, _ := reg.Find("A")
		b, _ := reg.Find("B")
		assert.Empty(t, b.ReferredBy)
		assert.Equal(t, "R$ 2.000,00", a.TotalPrice)
		assert.Equal(t, []string{"B"}, a.Referrals)
	})

	t.Run("Self and missing are skipped", func(t *testing.T) {
		_, outcome, err := SetReferrer(base, "B", "B")
		require.NoError(t, err)
		assert.Equal(t, SkipSelfReferral, outcome.Skipped)

		_, outcome, err = SetReferrer(base, "B", "Z")
		require.NoError(t, err)
		assert.Equal(t, SkipReferrerNotFound, outcome.Skipped)

		_, outcome, err = SetReferrer(base, "Z", "A")
		require.NoError(t, err)
		assert.Equal(t, SkipReferredNotFound, outcome.Skipped)
	})
}
