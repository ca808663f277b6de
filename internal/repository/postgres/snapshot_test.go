package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

func TestSnapshotBackend_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	backend := NewSnapshotBackend(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT payload FROM snapshots").
			WithArgs("cadastro-entries").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[]`)))

		payload, found, err := backend.Get(ctx, "cadastro-entries")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[]`, string(payload))
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT payload FROM snapshots").
			WithArgs("cadastro-settings").
			WillReturnError(sql.ErrNoRows)

		_, found, err := backend.Get(ctx, "cadastro-settings")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT payload FROM snapshots").
			WithArgs("cadastro-entries").
			WillReturnError(errors.New("connection reset"))

		_, _, err := backend.Get(ctx, "cadastro-entries")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveAndLoadCustomers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewStore(db, repository.KeysWithPrefix("cadastro"))
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs("cadastro-entries", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.SaveCustomers(ctx, []domain.Customer{{LoginID: "111", Name: "Ana"}})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM snapshots").
		WithArgs("cadastro-entries").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"loginId":"111","name":"Ana"}]`)))

	customers, err := store.LoadCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ana", customers[0].Name)

	mock.ExpectQuery("SELECT payload FROM snapshots").
		WithArgs("cadastro-settings").
		WillReturnError(sql.ErrNoRows)

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	assert.NoError(t, mock.ExpectationsWereMet())
}
