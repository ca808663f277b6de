package repository

import (
	"context"
	"sync"
)

// MemoryBackend keeps snapshots in process memory. It backs tests and the
// --memory flag of fleetctl.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailPuts makes every Put return the error, for exercising best-effort saves.
	FailPuts error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts != nil {
		return m.FailPuts
	}
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Close() error { return nil }
