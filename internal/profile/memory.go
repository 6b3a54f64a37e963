package profile

import (
	"context"
	"sync"

	"github.com/diogo/careerpilot/internal/models"
)

// MemoryStore keeps the profile in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	profile models.Profile
}

// NewMemory returns an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store
func (m *MemoryStore) Load(_ context.Context) (models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile, nil
}

// Save implements Store
func (m *MemoryStore) Save(_ context.Context, p models.Profile) error {
	m.mu.Lock()
	m.profile = p
	m.mu.Unlock()
	return nil
}

// Enabled implements Store
func (m *MemoryStore) Enabled() bool { return true }

// Close implements Store
func (m *MemoryStore) Close() error { return nil }

// Disabled is a Store that never persists anything
type Disabled struct{}

// Load always returns an empty profile
func (Disabled) Load(_ context.Context) (models.Profile, error) {
	return models.Profile{}, nil
}

// Save always fails with ErrDisabled
func (Disabled) Save(_ context.Context, _ models.Profile) error {
	return ErrDisabled
}

// Enabled implements Store
func (Disabled) Enabled() bool { return false }

// Close implements Store
func (Disabled) Close() error { return nil }
