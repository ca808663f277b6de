package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

func TestStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewStore(client, repository.KeysWithPrefix("cadastro"))
	defer store.Close()
	ctx := context.Background()

	customers, err := store.LoadCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)

	in := []domain.Customer{{LoginID: "111", Name: "Ana", TotalPrice: "R$ 2.500,00"}}
	require.NoError(t, store.SaveCustomers(ctx, in))

	raw, err := mr.Get("cadastro-entries")
	require.NoError(t, err)
	assert.Contains(t, raw, `"totalPrice":"R$ 2.500,00"`)

	out, err := store.LoadCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Minha Empresa", settings.CompanyName)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := NewClient(context.Background(), addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
