package storage

import (
	"context"
	"sync"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Compile-time interface check.
var _ domain.StateStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory state store. Safe for concurrent access.
// Used by tests and as a fallback when the data directory is unusable.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory state store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
		log:   log,
	}
}

// Load retrieves a blob by key.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a blob. Overwrites if the key already exists.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append([]byte(nil), data...)
	m.log.Debug("saved state %q (%d bytes, in-memory)", key, len(data))
	return nil
}

// Delete removes a blob by key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}
