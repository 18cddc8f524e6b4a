package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	want := []byte(`{"entries":[]}`)
	if err := fs.Save(ctx, "history", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := fs.Load(ctx, "history")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("load = %q, want %q", got, want)
	}

	// Overwrite.
	want = []byte(`{"entries":[{"id":"x"}]}`)
	if err := fs.Save(ctx, "history", want); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = fs.Load(ctx, "history")
	if err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("load = %q, want %q", got, want)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := fs.Load(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := fs.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := fs.Save(ctx, "history", []byte("{}")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := fs.Delete(ctx, "history"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "history.json")); !os.IsNotExist(err) {
		t.Fatal("file must be removed from disk")
	}
}

func TestFileStoreCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileStore(dir, logger.New(logger.LevelOff, nil)); err != nil {
		t.Fatalf("new file store: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if _, err := m.Load(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	data := []byte("hello")
	if err := m.Save(ctx, "k", data); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("load = %q", got)
	}

	// The store must hold its own copy of the data.
	data[0] = 'X'
	got[0] = 'Y'
	again, err := m.Load(ctx, "k")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if string(again) != "hello" {
		t.Fatalf("stored blob was aliased: %q", again)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ctx, "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
