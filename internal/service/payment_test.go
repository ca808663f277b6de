package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/service"
)

func TestPaymentService_UpdateSlot(t *testing.T) {
	c := newCustomer("A", "Ana", "R$ 2.500,00", "R$ 625,00")
	c.Payments = schedule.Unscheduled(c.WeeklyPrice, true)
	f := newFixture(t, c)
	svc := service.NewPaymentService(f.ws)

	t.Run("DefaultsDateAndAmount", func(t *testing.T) {
		got, err := svc.UpdateSlot(f.ctx, "A", 1, schedule.SlotUpdate{Status: domain.PaymentStatusPaid})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, got.Payments[0].Status)
		assert.Equal(t, "26/01/2024", got.Payments[0].Date)
		assert.Equal(t, "R$ 625,00", got.Payments[0].Amount)

		stored, _ := f.stored(t, "A")
		assert.Equal(t, domain.PaymentStatusPaid, stored.Payments[0].Status)
	})

	t.Run("PaidSlotIsLocked", func(t *testing.T) {
		_, err := svc.UpdateSlot(f.ctx, "A", 1, schedule.SlotUpdate{Status: domain.PaymentStatusUnpaid, Date: "01/02/2024"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		got, _ := f.ws.Registry().Find("A")
		assert.Equal(t, domain.PaymentStatusPaid, got.Payments[0].Status)
		assert.Equal(t, "26/01/2024", got.Payments[0].Date)
	})

	t.Run("NextSlot", func(t *testing.T) {
		week, ok, err := svc.NextSlot(f.ctx, "A")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, week)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := svc.UpdateSlot(f.ctx, "A", 9, schedule.SlotUpdate{Status: domain.PaymentStatusPaid})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = svc.UpdateSlot(f.ctx, "A", 2, schedule.SlotUpdate{Status: "quitado"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.UpdateSlot(f.ctx, "ghost", 1, schedule.SlotUpdate{Status: domain.PaymentStatusPaid})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, _, err = svc.NextSlot(f.ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
