package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/referral"
	"fleetdesk-backend/internal/service"
)

func TestReferralService_Refer(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		f := newFixture(t,
			newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
			newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
		)
		svc := service.NewReferralService(f.ws)

		outcome, err := svc.Refer(f.ctx, "A", "B")
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
		assert.Equal(t, "R$ 500,00", outcome.Discount)

		a, ok := f.stored(t, "A")
		require.True(t, ok)
		assert.Equal(t, "R$ 2.000,00", a.TotalPrice)
		assert.Equal(t, "R$ 500,00", a.WeeklyPrice)
		assert.Equal(t, "R$ 2.500,00", a.OriginalTotalPrice)
		b, ok := f.stored(t, "B")
		require.True(t, ok)
		assert.Equal(t, "A", b.ReferredBy)
	})

	t.Run("CannotRefer", func(t *testing.T) {
		a := newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00")
		a.CanRefer = false
		f := newFixture(t, a, newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"))
		svc := service.NewReferralService(f.ws)

		_, err := svc.Refer(f.ctx, "A", "B")
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, _ := f.ws.Registry().Find("A")
		assert.Empty(t, got.Referrals)
		assert.Equal(t, "R$ 2.500,00", got.TotalPrice)
	})

	t.Run("MissingReferrer", func(t *testing.T) {
		f := newFixture(t, newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"))
		outcome, err := service.NewReferralService(f.ws).Refer(f.ctx, "A", "B")
		require.NoError(t, err)
		assert.Equal(t, referral.SkipReferrerNotFound, outcome.Skipped)
	})
}

func TestReferralService_ApplyReferralIdempotent(t *testing.T) {
	f := newFixture(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
	)
	svc := service.NewReferralService(f.ws)

	_, err := svc.ApplyReferral(f.ctx, "A", "B")
	require.NoError(t, err)
	before := f.ws.Registry().All()

	outcome, err := svc.ApplyReferral(f.ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, referral.SkipAlreadyLinked, outcome.Skipped)
	assert.Equal(t, domain.KindNoOp, outcome.Kind())
	assert.Equal(t, before, f.ws.Registry().All())
}

func TestReferralService_SetReferrer(t *testing.T) {
	f := newFixture(t,
		newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00"),
		newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00"),
	)
	svc := service.NewReferralService(f.ws)

	outcome, err := svc.SetReferrer(f.ctx, "B", "A")
	require.NoError(t, err)
	assert.True(t, outcome.Applied)

	b, _ := f.ws.Registry().Find("B")
	assert.Equal(t, "A", b.ReferredBy)

	_, err = svc.SetReferrer(f.ctx, "B", "")
	require.NoError(t, err)
	b, _ = f.ws.Registry().Find("B")
	assert.Empty(t, b.ReferredBy)

	// the discount already granted to A is kept
	a, _ := f.ws.Registry().Find("A")
	assert.Equal(t, "R$ 2.000,00", a.TotalPrice)

	outcome, err = svc.SetReferrer(f.ctx, "B", "B")
	require.NoError(t, err)
	assert.Equal(t, referral.SkipSelfReferral, outcome.Skipped)
}
