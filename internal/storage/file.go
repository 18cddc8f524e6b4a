// Package storage provides application state persistence.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Compile-time interface check.
var _ domain.StateStore = (*FileStore)(nil)

// FileStore keeps each state blob as a JSON file under a data directory.
type FileStore struct {
	dir string
	log *logger.Logger
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Load reads a blob. A key that was never saved yields ErrNotFound.
func (f *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("state %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading state %q: %w", key, err)
	}
	f.log.Debug("loaded state %q (%d bytes)", key, len(data))
	return data, nil
}

// Save writes a blob via a temp file and rename, so a crash mid-write
// never leaves a truncated file behind.
func (f *FileStore) Save(ctx context.Context, key string, data []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state %q: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("committing state %q: %w", key, err)
	}
	f.log.Debug("saved state %q (%d bytes)", key, len(data))
	return nil
}

// Delete removes a blob. Deleting an absent key yields ErrNotFound.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("state %q: %w", key, domain.ErrNotFound)
		}
		return fmt.Errorf("deleting state %q: %w", key, err)
	}
	f.log.Debug("deleted state %q", key)
	return nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
