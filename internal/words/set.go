// Package words tracks the fixed vocabulary and which of its members
// are currently enabled for generation.
package words

import (
	"sync"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Vocabulary is the fixed word list, in canonical order. The first
// sentence it was built around: "Je suis rêveur professionnel."
var Vocabulary = []string{
	"Je", "suis", "rêveur", "professionnel", "poète", "du", "dimanche",
	"voyageur", "immobile", "funambule", "des", "nuages", "jardinier",
	"d'étoiles", "chercheur", "de", "silences", "danseur", "invisible",
	"équilibriste",
}

// Set holds the enabled subset of a fixed vocabulary. The enabled
// subset is never empty: disabling the last remaining word is rejected.
// Safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	order   []string
	enabled map[string]bool
	log     *logger.Logger
}

// NewSet creates a set over the given vocabulary with every word enabled.
func NewSet(vocab []string, log *logger.Logger) *Set {
	s := &Set{
		order:   append([]string(nil), vocab...),
		enabled: make(map[string]bool, len(vocab)),
		log:     log,
	}
	for _, w := range vocab {
		s.enabled[w] = true
	}
	return s
}

// Toggle flips a word's membership. Unknown words and disabling the
// sole enabled word are rejected without changing state.
func (s *Set) Toggle(word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	on, ok := s.enabled[word]
	if !ok {
		s.log.Error("toggle of unknown word %q", word)
		return domain.ErrUnknownWord
	}
	if on && s.selectedCountLocked() == 1 {
		s.log.Warn("refusing to disable last enabled word %q", word)
		return domain.ErrLastWord
	}
	s.enabled[word] = !on
	s.log.Debug("word %q -> enabled=%v", word, !on)
	return nil
}

// SelectAll enables every word.
func (s *Set) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.enabled {
		s.enabled[w] = true
	}
	s.log.Debug("all %d words enabled", len(s.order))
}

// Reset restores the startup state, which enables every word.
func (s *Set) Reset() { s.SelectAll() }

// Selected returns the enabled words in canonical vocabulary order,
// not in toggle order.
func (s *Set) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.order))
	for _, w := range s.order {
		if s.enabled[w] {
			out = append(out, w)
		}
	}
	return out
}

// All returns the full vocabulary in canonical order.
func (s *Set) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// IsSelected reports whether a word is currently enabled. Unknown
// words are simply not selected.
func (s *Set) IsSelected(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled[word]
}

// SelectedCount returns the number of enabled words.
func (s *Set) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedCountLocked()
}

// Size returns the vocabulary size.
func (s *Set) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Set) selectedCountLocked() int {
	n := 0
	for _, on := range s.enabled {
		if on {
			n++
		}
	}
	return n
}
