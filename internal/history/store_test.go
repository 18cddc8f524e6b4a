package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
	"github.com/elodiecarel/reverie/internal/storage"
)

// failingStore errors on every Save to exercise best-effort persistence.
type failingStore struct{}

func (failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, domain.ErrNotFound
}
func (failingStore) Save(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}
func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("disk full")
}

func setupStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryStore) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	mem := storage.NewMemoryStore(log)
	return New(mem, log, opts...), mem
}

func addN(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := s.Add(context.Background(), fmt.Sprintf("Combinaison %d.", i), 1+i%10); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
}

func TestAddValidation(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "", 5); err == nil {
		t.Fatal("expected error for empty text")
	}
	for _, score := range []int{0, 11} {
		if _, err := s.Add(ctx, "Je suis rêveur.", score); !errors.Is(err, domain.ErrScoreRange) {
			t.Fatalf("score %d: expected ErrScoreRange, got %v", score, err)
		}
	}
	if s.Len() != 0 {
		t.Fatal("rejected adds must not append")
	}
}

func TestCapacityEvictsOldestFirst(t *testing.T) {
	s, _ := setupStore(t, WithCapacity(5))
	addN(t, s, 6)

	if s.Len() != 5 {
		t.Fatalf("length = %d, want 5", s.Len())
	}
	entries := s.Entries()
	if entries[0].Text != "Combinaison 1." {
		t.Fatalf("oldest surviving entry is %q, want \"Combinaison 1.\"", entries[0].Text)
	}
	if entries[4].Text != "Combinaison 5." {
		t.Fatalf("newest entry is %q, want \"Combinaison 5.\"", entries[4].Text)
	}
}

func TestStatisticsEmptySentinel(t *testing.T) {
	s, _ := setupStore(t)

	stats := s.Statistics()
	if !stats.Empty() {
		t.Fatalf("expected empty sentinel, got %+v", stats)
	}
	if stats.AverageLabel() != "–" {
		t.Fatalf("empty average label = %q, want \"–\"", stats.AverageLabel())
	}
}

func TestStatistics(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	for _, score := range []int{3, 7, 8} {
		if _, err := s.Add(ctx, "Je suis rêveur.", score); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	stats := s.Statistics()
	if stats.Count != 3 || stats.Max != 8 || stats.Min != 3 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
	if stats.Average != 6 {
		t.Fatalf("average = %v, want 6", stats.Average)
	}
	if stats.AverageLabel() != "6.00" {
		t.Fatalf("average label = %q, want \"6.00\"", stats.AverageLabel())
	}
}

func TestStatisticsRounding(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	for _, score := range []int{1, 1, 2} {
		if _, err := s.Add(ctx, "Je suis rêveur.", score); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// 4/3 rounds to two decimals.
	if got := s.Statistics().Average; got != 1.33 {
		t.Fatalf("average = %v, want 1.33", got)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s, mem := setupStore(t)
	addN(t, s, 3)

	log := logger.New(logger.LevelOff, nil)
	reloaded := New(mem, log)
	reloaded.Load(context.Background())

	if reloaded.Len() != 3 {
		t.Fatalf("reloaded length = %d, want 3", reloaded.Len())
	}
	want := s.Entries()
	got := reloaded.Entries()
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text || got[i].Score != want[i].Score {
			t.Fatalf("entry %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadIgnoresCorruptData(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	mem := storage.NewMemoryStore(log)
	if err := mem.Save(context.Background(), "history", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	s := New(mem, log)
	s.Load(context.Background())
	if s.Len() != 0 {
		t.Fatalf("corrupt data must load as empty, got %d entries", s.Len())
	}
}

func TestLoadDropsInvalidEntries(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	mem := storage.NewMemoryStore(log)

	snap := snapshot{Entries: []domain.Entry{
		{ID: "a", Text: "Je suis rêveur.", Score: 7, CreatedAt: time.Now()},
		{ID: "b", Text: "", Score: 5, CreatedAt: time.Now()},  // no text
		{ID: "c", Text: "Poète du dimanche.", Score: 0, CreatedAt: time.Now()}, // score out of range
		{ID: "d", Text: "Voyageur immobile.", Score: 10, CreatedAt: time.Now()},
	}}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := mem.Save(context.Background(), "history", data); err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	s := New(mem, log)
	s.Load(context.Background())
	if s.Len() != 2 {
		t.Fatalf("expected 2 valid entries, got %d", s.Len())
	}
	entries := s.Entries()
	if entries[0].ID != "a" || entries[1].ID != "d" {
		t.Fatalf("unexpected surviving entries %+v", entries)
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	s := New(failingStore{}, log)

	if _, err := s.Add(context.Background(), "Je suis rêveur.", 6); err != nil {
		t.Fatalf("add must succeed despite persist failure: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("in-memory state lost: length = %d", s.Len())
	}
}

func TestSortByScore(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	for _, score := range []int{4, 9, 1, 7} {
		if _, err := s.Add(ctx, "Je suis rêveur.", score); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	s.SortByScore(ctx, true)
	if !sort.SliceIsSorted(s.Entries(), func(i, j int) bool {
		return s.Entries()[i].Score < s.Entries()[j].Score
	}) {
		t.Fatalf("ascending sort failed: %+v", s.Entries())
	}

	s.SortByScore(ctx, false)
	entries := s.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Score < entries[i].Score {
			t.Fatalf("descending sort failed: %+v", entries)
		}
	}
}

func TestShufflePreservesEntries(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	addN(t, s, 10)
	before := s.Entries()

	s.Shuffle(ctx)
	after := s.Entries()
	if len(after) != len(before) {
		t.Fatalf("shuffle changed length: %d -> %d", len(before), len(after))
	}

	ids := make(map[string]bool, len(before))
	for _, e := range before {
		ids[e.ID] = true
	}
	for _, e := range after {
		if !ids[e.ID] {
			t.Fatalf("shuffle invented entry %+v", e)
		}
	}
}

func TestClear(t *testing.T) {
	s, mem := setupStore(t)
	ctx := context.Background()
	addN(t, s, 4)

	s.Clear(ctx)
	if s.Len() != 0 {
		t.Fatalf("length after clear = %d", s.Len())
	}
	if _, err := mem.Load(ctx, "history"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("persisted blob must be gone, got %v", err)
	}

	// Clearing an already empty history must not error or panic.
	s.Clear(ctx)
}

func TestSubscribeFiresOnMutation(t *testing.T) {
	s, _ := setupStore(t)
	calls := 0
	s.Subscribe(func() { calls++ })

	addN(t, s, 2)
	s.Clear(context.Background())
	if calls != 3 {
		t.Fatalf("observer fired %d times, want 3", calls)
	}
}
