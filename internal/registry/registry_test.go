package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
)

func customer(id, name string) domain.Customer {
	return domain.Customer{LoginID: id, Name: name, TotalPrice: "R$ 2.500,00", WeeklyPrice: "R$ 625,00"}
}

func TestUpsert(t *testing.T) {
	t.Run("Append then replace in place", func(t *testing.T) {
		r := New(nil)
		r, err := r.Upsert(customer("111", "Ana"))
		require.NoError(t, err)
		r, err = r.Upsert(customer("222", "Bruno"))
		require.NoError(t, err)

		updated := customer("111", "Ana Maria")
		r, err = r.Upsert(updated)
		require.NoError(t, err)

		all := r.All()
		require.Len(t, all, 2)
		assert.Equal(t, "Ana Maria", all[0].Name)
		assert.Equal(t, "222", all[1].LoginID)
	})

	t.Run("Invalid record leaves registry unchanged", func(t *testing.T) {
		r, err := New(nil).Upsert(customer("111", "Ana"))
		require.NoError(t, err)

		next, err := r.Upsert(domain.Customer{LoginID: "222"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 1, next.Len())
	})

	t.Run("Previous value is not affected", func(t *testing.T) {
		before, err := New(nil).Upsert(customer("111", "Ana"))
		require.NoError(t, err)
		after, err := before.Upsert(customer("111", "Changed"))
		require.NoError(t, err)

		c, _ := before.Find("111")
		assert.Equal(t, "Ana", c.Name)
		c, _ = after.Find("111")
		assert.Equal(t, "Changed", c.Name)
	})

	t.Run("UpsertAll is all or nothing", func(t *testing.T) {
		r := New([]domain.Customer{customer("111", "Ana")})
		next, err := r.UpsertAll([]domain.Customer{customer("222", "Bruno"), {LoginID: "333"}})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 1, next.Len())
	})
}

func TestNew_Dedup(t *testing.T) {
	r := New([]domain.Customer{customer("111", "Ana"), customer("222", "Bruno"), customer("111", "Ana 2"), {Name: "no key"}})
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Ana 2", all[0].Name)
}

func TestFind_ReturnsCopy(t *testing.T) {
	c := customer("111", "Ana")
	c.Referrals = []string{"222"}
	r := New([]domain.Customer{c})

	got, ok := r.Find("111")
	require.True(t, ok)
	got.Referrals[0] = "999"

	again, _ := r.Find("111")
	assert.Equal(t, "222", again.Referrals[0])
}

func TestRemove_LeavesDanglingReferences(t *testing.T) {
	a := customer("111", "Ana")
	b := customer("222", "Bruno")
	b.ReferredBy = "111"
	r := New([]domain.Customer{a, b})

	r = r.Remove("111")
	_, ok := r.Find("111")
	assert.False(t, ok)

	got, ok := r.Find("222")
	require.True(t, ok)
	assert.Equal(t, "111", got.ReferredBy)
	assert.Equal(t, "", r.ResolveReferrerName(got))

	assert.Equal(t, 1, r.Remove("nobody").Len())
}

func TestResolveReferrerName(t *testing.T) {
	a := customer("111", "Ana")
	b := customer("222", "Bruno")
	b.ReferredBy = "111"
	r := New([]domain.Customer{a, b})

	assert.Equal(t, "Ana", r.ResolveReferrerName(b))
	assert.Equal(t, "", r.ResolveReferrerName(a))
}

func TestSetStatus(t *testing.T) {
	r := New([]domain.Customer{customer("111", "Ana")})

	_, err := r.SetStatus("111", false, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	r, err = r.SetStatus("111", false, "moved away")
	require.NoError(t, err)
	c, _ := r.Find("111")
	assert.False(t, c.IsActive())
	assert.Equal(t, "moved away", c.InactiveReason)

	r, err = r.SetStatus("111", true, "")
	require.NoError(t, err)
	c, _ = r.Find("111")
	assert.True(t, c.IsActive())
	assert.Empty(t, c.InactiveReason)

	_, err = r.SetStatus("999", true, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
