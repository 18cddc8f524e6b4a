package rating

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/engine"
	"github.com/elodiecarel/reverie/internal/history"
	"github.com/elodiecarel/reverie/internal/logger"
	"github.com/elodiecarel/reverie/internal/storage"
	"github.com/elodiecarel/reverie/internal/words"
)

func setupGate(t *testing.T, ready bool, text string) (*Gate, *history.Store) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	hist := history.New(storage.NewMemoryStore(log), log)
	g := New(
		func() bool { return ready },
		func() string { return text },
		hist, log,
	)
	return g, hist
}

func TestOpenRequiresReadyCombination(t *testing.T) {
	g, _ := setupGate(t, false, "")

	g.Open()
	if g.Enabled() {
		t.Fatal("gate must stay closed when the combination is not ready")
	}
}

func TestSelectWhileClosed(t *testing.T) {
	g, _ := setupGate(t, true, "Je suis rêveur.")

	if err := g.Select(7); !errors.Is(err, domain.ErrGateClosed) {
		t.Fatalf("expected ErrGateClosed, got %v", err)
	}
	if g.Selected() != 0 {
		t.Fatal("rejected selection must not stick")
	}
}

func TestSelectRange(t *testing.T) {
	g, _ := setupGate(t, true, "Je suis rêveur.")
	g.Open()

	for _, score := range []int{0, 11, -3} {
		if err := g.Select(score); !errors.Is(err, domain.ErrScoreRange) {
			t.Fatalf("score %d: expected ErrScoreRange, got %v", score, err)
		}
	}
	for _, score := range []int{1, 10, 5} {
		if err := g.Select(score); err != nil {
			t.Fatalf("score %d: %v", score, err)
		}
		if g.Selected() != score {
			t.Fatalf("selected = %d, want %d", g.Selected(), score)
		}
	}
}

func TestSubmitBeforeReadyHasNoSideEffects(t *testing.T) {
	g, hist := setupGate(t, false, "")

	if _, err := g.Submit(context.Background()); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if hist.Len() != 0 {
		t.Fatal("failed submit must not write history")
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	g, hist := setupGate(t, true, "Je suis rêveur.")
	g.Open()

	if _, err := g.Submit(context.Background()); !errors.Is(err, domain.ErrNoScore) {
		t.Fatalf("expected ErrNoScore, got %v", err)
	}
	if hist.Len() != 0 {
		t.Fatal("failed submit must not write history")
	}
}

func TestSubmitWritesHistoryAndClosesGate(t *testing.T) {
	g, hist := setupGate(t, true, "Je suis rêveur professionnel.")
	g.Open()
	if err := g.Select(8); err != nil {
		t.Fatalf("select: %v", err)
	}

	entry, err := g.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.Text != "Je suis rêveur professionnel." || entry.Score != 8 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.ID == "" {
		t.Fatal("entry must get an ID")
	}

	if g.Enabled() {
		t.Fatal("gate must close after submit")
	}
	if g.Selected() != 0 {
		t.Fatal("selection must clear after submit")
	}
	if hist.Len() != 1 {
		t.Fatalf("history length = %d, want 1", hist.Len())
	}

	// A second submit for the same combination is rejected.
	if _, err := g.Submit(context.Background()); !errors.Is(err, domain.ErrGateClosed) {
		t.Fatalf("expected ErrGateClosed on double submit, got %v", err)
	}
	if hist.Len() != 1 {
		t.Fatal("double submit must not write a second entry")
	}
}

func TestFeedbackThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{1, "Aïe. La poésie est un art difficile."},
		{3, "Aïe. La poésie est un art difficile."},
		{4, "Pas mal, mais la muse peut mieux faire."},
		{6, "Pas mal, mais la muse peut mieux faire."},
		{7, "Belle trouvaille !"},
		{8, "Belle trouvaille !"},
		{9, "Un chef-d'œuvre est né."},
		{10, "Un chef-d'œuvre est né."},
	}
	for _, tt := range tests {
		if got := Feedback(tt.score); got != tt.want {
			t.Fatalf("Feedback(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

// TestGenerateRateSubmitFlow walks the whole loop: generate a three-word
// combination, wait for the reveal, rate it 9, submit, check statistics.
func TestGenerateRateSubmitFlow(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	set := words.NewSet(words.Vocabulary, log)
	hist := history.New(storage.NewMemoryStore(log), log)

	ready := make(chan struct{}, 1)
	var gate *Gate
	eng := engine.New(set, log,
		engine.WithRevealInterval(time.Millisecond),
		engine.WithRand(rand.New(rand.NewPCG(3, 9))),
		engine.WithOnGenerate(func() { gate.Close() }),
		engine.WithOnReady(func() {
			gate.Open()
			ready <- struct{}{}
		}),
	)
	gate = New(eng.Ready, eng.Current, hist, log)

	if err := eng.SetCountRule(domain.CountRule{Mode: domain.CountFixed, Fixed: 3}); err != nil {
		t.Fatalf("set count rule: %v", err)
	}
	if err := eng.Generate(context.Background(), false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Rating is blocked for the whole generate→reveal span.
	if err := gate.Select(9); !errors.Is(err, domain.ErrGateClosed) {
		t.Fatalf("expected ErrGateClosed during reveal, got %v", err)
	}

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reveal")
	}

	if !gate.Enabled() {
		t.Fatal("gate must open once the reveal completes")
	}
	if err := gate.Select(9); err != nil {
		t.Fatalf("select: %v", err)
	}
	entry, err := gate.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.Text != eng.Current() {
		t.Fatalf("entry text %q != current combination %q", entry.Text, eng.Current())
	}

	stats := hist.Statistics()
	if stats.Count != 1 || stats.Max != 9 || stats.Min != 9 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
	if stats.AverageLabel() != "9.00" {
		t.Fatalf("average label = %q, want \"9.00\"", stats.AverageLabel())
	}
}
