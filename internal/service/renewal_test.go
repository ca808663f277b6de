package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/renewal"
	"fleetdesk-backend/internal/service"
)

func TestRenewalService_Renew(t *testing.T) {
	c := newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00")
	c.AccountPassword = "s3nha"
	c.ReturnDate = "01/03/2025 10:00"
	f := newFixture(t, c)
	svc := service.NewRenewalService(f.ws)

	t.Run("BadSuffix", func(t *testing.T) {
		_, _, err := svc.Renew(f.ctx, "A", "01/04/2025 10:00", "Visa", "M1234")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("BadDate", func(t *testing.T) {
		_, _, err := svc.Renew(f.ctx, "A", "amanhã", "", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, _, err := svc.Renew(f.ctx, "ghost", "01/04/2025 10:00", "", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("TwoRenewals", func(t *testing.T) {
		_, _, err := svc.Renew(f.ctx, "A", "01/04/2025 10:00", "Visa", "v1234")
		require.NoError(t, err)
		got, notice, err := svc.Renew(f.ctx, "A", "01/05/2025 10:00", "", "")
		require.NoError(t, err)

		require.Len(t, got.Renewals, 2)
		assert.Equal(t, "01/03/2025 10:00", got.Renewals[0].PreviousReturnDate)
		assert.Equal(t, "01/04/2025 10:00", got.Renewals[1].PreviousReturnDate)
		assert.Equal(t, "01/05/2025 10:00", got.ReturnDate)
		assert.Equal(t, "01/04/2025 10:00", got.PostRenewalDate)
		assert.Equal(t, []string{"Visa"}, got.CardBrands)
		assert.Equal(t, []string{"V1234"}, got.CardSuffixes)
		assert.Equal(t, "20/01/2024 10:00", got.Renewals[0].RenewalTimestamp)

		assert.Equal(t, "RENOVAÇÃO\nNOME: Ana\nLOGIN CPF: A\nSENHA: s3nha\nDIA: 01/05 10:00", notice)
	})
}

func TestRenewalService_Due(t *testing.T) {
	soon := newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00")
	soon.ReturnDate = "25/01/2024 10:00"
	overdue := newCustomer("B", "Bruno", "R$ 1.600,00", "R$ 400,00")
	overdue.ReturnDate = "18/01/2024 10:00"
	later := newCustomer("C", "Carla", "R$ 1.600,00", "R$ 400,00")
	later.ReturnDate = "20/03/2024 10:00"
	inactive := newCustomer("D", "Davi", "R$ 1.600,00", "R$ 400,00")
	inactive.ReturnDate = "21/01/2024 10:00"
	inactive.Active = domain.BoolPtr(false)
	inactive.InactiveReason = "Encerrado"
	f := newFixture(t, soon, overdue, later, inactive)

	due := service.NewRenewalService(f.ws).Due(f.ctx, 7)
	require.Len(t, due, 2)
	assert.Equal(t, "B", due[0].Customer.LoginID)
	assert.Equal(t, -2, due[0].DaysLeft)
	assert.Equal(t, renewal.LevelCritical, due[0].Level)
	assert.Equal(t, "A", due[1].Customer.LoginID)
	assert.Equal(t, renewal.LevelWarning, due[1].Level)
}
