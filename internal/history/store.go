// Package history keeps the capped, persisted log of rated combinations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// DefaultCapacity bounds the history log. Exceeding it evicts the
// oldest entry first.
const DefaultCapacity = 1000

// storeKey names the persisted blob in the state store.
const storeKey = "history"

// Option configures the store.
type Option func(*Store)

// WithCapacity overrides the entry capacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// Store is the append-only (capped) log of rated combinations.
// Mutations persist synchronously, best-effort: a failed save is
// logged and never aborts the in-memory change. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  []domain.Entry
	capacity int
	persist  domain.StateStore
	log      *logger.Logger
	subs     []func()
}

// snapshot is the persisted JSON shape.
type snapshot struct {
	Entries []domain.Entry `json:"entries"`
}

// New creates a history store backed by the given state store.
func New(persist domain.StateStore, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		capacity: DefaultCapacity,
		persist:  persist,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores persisted entries. Missing or corrupt data falls back
// to an empty history; individual invalid entries are dropped.
func (s *Store) Load(ctx context.Context) {
	data, err := s.persist.Load(ctx, storeKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("loading history: %v (starting empty)", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("corrupt history data: %v (starting empty)", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for _, e := range snap.Entries {
		if !e.Valid() {
			dropped++
			continue
		}
		s.entries = append(s.entries, e)
	}
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = s.entries[over:]
	}
	if dropped > 0 {
		s.log.Warn("dropped %d invalid history entries on load", dropped)
	}
	s.log.Info("history loaded: %d entries", len(s.entries))
}

// Add validates and appends a rated combination, evicting the oldest
// entry when over capacity, then persists and notifies observers.
func (s *Store) Add(ctx context.Context, text string, score int) (domain.Entry, error) {
	entry := domain.Entry{
		ID:        uuid.NewString(),
		Text:      text,
		Score:     score,
		CreatedAt: time.Now(),
	}
	if text == "" {
		return domain.Entry{}, domain.ErrNotReady
	}
	if score < domain.ScoreMin || score > domain.ScoreMax {
		return domain.Entry{}, domain.ErrScoreRange
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[1:]
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Info("history: added entry (score=%d, total=%d)", score, s.Len())
	s.notify()
	return entry, nil
}

// Entries returns a copy of the log in stored order.
func (s *Store) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Statistics summarizes all scores. An empty history yields the
// zero-Count sentinel rather than dividing by zero.
func (s *Store) Statistics() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return domain.Statistics{}
	}

	sum := 0
	max := s.entries[0].Score
	min := s.entries[0].Score
	for _, e := range s.entries {
		sum += e.Score
		if e.Score > max {
			max = e.Score
		}
		if e.Score < min {
			min = e.Score
		}
	}
	avg := float64(sum) / float64(len(s.entries))
	return domain.Statistics{
		Count:   len(s.entries),
		Average: math.Round(avg*100) / 100,
		Max:     max,
		Min:     min,
	}
}

// SortByScore reorders the stored entries by score and persists the
// new order.
func (s *Store) SortByScore(ctx context.Context, ascending bool) {
	s.mu.Lock()
	sort.SliceStable(s.entries, func(i, j int) bool {
		if ascending {
			return s.entries[i].Score < s.entries[j].Score
		}
		return s.entries[i].Score > s.entries[j].Score
	})
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// Shuffle randomizes the stored order (Fisher–Yates) and persists it.
func (s *Store) Shuffle(ctx context.Context) {
	s.mu.Lock()
	rand.Shuffle(len(s.entries), func(i, j int) {
		s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	})
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// Clear removes all entries and the persisted copy. Confirmation is
// the caller's concern.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.entries = nil
	if err := s.persist.Delete(ctx, storeKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("clearing persisted history: %v", err)
	}
	s.mu.Unlock()
	s.log.Info("history cleared")
	s.notify()
}

// Subscribe registers an observer called after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// persistLocked saves the current entries, best-effort. A failure is
// logged and the in-memory state keeps the change.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(snapshot{Entries: s.entries})
	if err != nil {
		s.log.Error("encoding history: %v", err)
		return
	}
	if err := s.persist.Save(ctx, storeKey, data); err != nil {
		s.log.Warn("persisting history: %v (in-memory state kept)", err)
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := append(([]func())(nil), s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
