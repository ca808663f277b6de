package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/metrics"
	"fleetdesk-backend/internal/registry"
	"fleetdesk-backend/internal/repository"
)

// Workspace owns the in-memory registry. It is loaded once and every logical
// operation replaces it in a single swap followed by a best-effort save.
type Workspace struct {
	mu      sync.Mutex
	repo    repository.CustomerRepository
	reg     registry.Registry
	metrics *metrics.Metrics
	now     func() time.Time
}

// mutation computes the next registry. A KindNoOp result leaves the registry
// and the store untouched.
type mutation func(reg registry.Registry) (registry.Registry, domain.Kind, error)

func NewWorkspace(ctx context.Context, repo repository.CustomerRepository, m *metrics.Metrics) (*Workspace, error) {
	customers, err := repo.LoadCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	w := &Workspace{
		repo:    repo,
		reg:     registry.New(customers),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
	w.publishCounts()
	logger.Info("Workspace loaded", "customers", w.reg.Len())
	return w, nil
}

// SetClock replaces the time source.
func (w *Workspace) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}

func (w *Workspace) Now() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now()
}

// Registry returns the current registry value.
func (w *Workspace) Registry() registry.Registry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg
}

func (w *Workspace) Metrics() *metrics.Metrics {
	return w.metrics
}

// record counts and logs an operation that does not go through apply.
func (w *Workspace) record(operation string, err error, args ...any) {
	kind := domain.KindOf(err)
	w.metrics.RecordOperation(operation, string(kind))
	logger.Operation(operation, string(kind), err, args...)
}

func (w *Workspace) apply(ctx context.Context, operation string, fn mutation, args ...any) error {
	logger.EnterMethod("Workspace.apply", "operation", operation)
	w.mu.Lock()
	defer w.mu.Unlock()

	next, kind, err := fn(w.reg)
	if err != nil {
		kind = domain.KindOf(err)
	}
	w.metrics.RecordOperation(operation, string(kind))
	logger.Operation(operation, string(kind), err, args...)
	if kind == domain.KindInternal {
		logger.ExitMethodWithError("Workspace.apply", err, "operation", operation)
		return err
	}
	if err != nil || kind == domain.KindNoOp {
		logger.ExitMethod("Workspace.apply", "operation", operation, "outcome", string(kind))
		return err
	}

	w.reg = next
	w.persist(ctx)
	w.publishCounts()
	logger.ExitMethod("Workspace.apply", "operation", operation, "outcome", string(kind), "customers", w.reg.Len())
	return nil
}

// persist saves the whole registry. A failed save is logged and the
// in-memory state stays authoritative.
func (w *Workspace) persist(ctx context.Context) {
	if err := w.repo.SaveCustomers(ctx, w.reg.All()); err != nil {
		logger.ErrorContext(ctx, "Failed to persist registry", "customers", w.reg.Len(), "error", err)
	}
}

func (w *Workspace) publishCounts() {
	active := 0
	for _, c := range w.reg.All() {
		if c.IsActive() {
			active++
		}
	}
	w.metrics.SetCustomers(active, w.reg.Len()-active)
}

// Reload discards the in-memory registry and reads it again from the store.
func (w *Workspace) Reload(ctx context.Context) error {
	customers, err := w.repo.LoadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reg = registry.New(customers)
	w.publishCounts()
	return nil
}
