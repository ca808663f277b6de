package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
)

func TestKeysWithPrefix(t *testing.T) {
	k := KeysWithPrefix("")
	assert.Equal(t, "cadastro-entries", k.Customers)
	assert.Equal(t, "cadastro-pending-profiles", k.PendingProfiles)
	assert.Equal(t, "cadastro-settings", k.Settings)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, KeysWithPrefix("cadastro"))

	t.Run("Empty store", func(t *testing.T) {
		customers, err := store.LoadCustomers(ctx)
		require.NoError(t, err)
		assert.Empty(t, customers)

		settings, err := store.LoadSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("Customers", func(t *testing.T) {
		in := []domain.Customer{{LoginID: "111", Name: "Ana", Referrals: []string{"222"}}}
		require.NoError(t, store.SaveCustomers(ctx, in))

		raw, ok, err := backend.Get(ctx, "cadastro-entries")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, string(raw), `"loginId":"111"`)

		out, err := store.LoadCustomers(ctx)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Pending profiles and settings", func(t *testing.T) {
		profiles := []domain.PendingProfile{{ID: "p1", Name: "Lead", Status: domain.PendingStatusPending}}
		require.NoError(t, store.SavePendingProfiles(ctx, profiles))
		got, err := store.LoadPendingProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, profiles, got)

		s := domain.Settings{PixKey: "pix", PaymentDay: "Sexta-feira", CompanyName: "Acme"}
		require.NoError(t, store.SaveSettings(ctx, s))
		loaded, err := store.LoadSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, s, loaded)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		require.NoError(t, backend.Put(ctx, "cadastro-entries", []byte("{not json")))
		_, err := store.LoadCustomers(ctx)
		assert.Error(t, err)
	})

	t.Run("Put failure is returned", func(t *testing.T) {
		backend.FailPuts = errors.New("disk full")
		defer func() { backend.FailPuts = nil }()
		err := store.SaveCustomers(ctx, nil)
		assert.ErrorContains(t, err, "disk full")
	})
}
