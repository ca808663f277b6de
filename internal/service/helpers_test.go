package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/metrics"
	"fleetdesk-backend/internal/repository"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/service"
	"fleetdesk-backend/internal/storage"
)

// Saturday; the next payment Friday is 26/01/2024.
var testNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

func newCustomer(id, name, total, weekly string) domain.Customer {
	return domain.Customer{
		LoginID:     id,
		Name:        name,
		TotalPrice:  total,
		WeeklyPrice: weekly,
		CanRefer:    true,
		PickupDate:  "15/01/2024 10:00",
		ReturnDate:  "15/02/2024 10:00",
		Payments:    schedule.Initialize("15/01/2024", weekly),
	}
}

type fixture struct {
	ctx     context.Context
	store   *repository.Store
	backend *repository.MemoryBackend
	metrics *metrics.Metrics
	ws      *service.Workspace
}

func newFixture(t *testing.T, customers ...domain.Customer) *fixture {
	t.Helper()
	ctx := context.Background()
	backend := repository.NewMemoryBackend()
	store := repository.NewStore(backend, repository.KeysWithPrefix("test"))
	require.NoError(t, store.SaveCustomers(ctx, customers))

	m := metrics.New()
	ws, err := service.NewWorkspace(ctx, store, m)
	require.NoError(t, err)
	ws.SetClock(func() time.Time { return testNow })
	return &fixture{ctx: ctx, store: store, backend: backend, metrics: m, ws: ws}
}

func (f *fixture) stored(t *testing.T, loginID string) (domain.Customer, bool) {
	t.Helper()
	customers, err := f.store.LoadCustomers(f.ctx)
	require.NoError(t, err)
	for _, c := range customers {
		if c.LoginID == loginID {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) LoadCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepo) SaveCustomers(ctx context.Context, customers []domain.Customer) error {
	args := m.Called(ctx, customers)
	return args.Error(0)
}

// MockBackupStorage
type MockBackupStorage struct {
	mock.Mock
}

func (m *MockBackupStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockBackupStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackupStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ObjectInfo), args.Error(1)
}

func (m *MockBackupStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
