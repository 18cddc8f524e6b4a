// Package rating implements the gate controlling when a score may be
// submitted. The gate opens only when the engine pushes "ready" and
// closes on submit or when a new generation starts.
package rating

import (
	"context"
	"sync"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/history"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Gate accepts a score selection while enabled and writes the rated
// combination to the history store on submit. It queries the engine
// through the ready/current capabilities given at construction, so
// there is no back-reference to wire up afterwards.
type Gate struct {
	mu       sync.Mutex
	enabled  bool
	selected int // 0 when nothing is selected

	ready   func() bool
	current func() string
	history *history.Store
	log     *logger.Logger
}

// New creates a closed gate. ready and current are read-only queries
// against the combination engine.
func New(ready func() bool, current func() string, hist *history.Store, log *logger.Logger) *Gate {
	return &Gate{
		ready:   ready,
		current: current,
		history: hist,
		log:     log,
	}
}

// Open enables rating. Called by the engine when a reveal completes;
// an Open without a ready combination is an invariant violation and
// degrades to a no-op.
func (g *Gate) Open() {
	if !g.ready() {
		g.log.Error("gate open requested without a ready combination")
		return
	}
	g.mu.Lock()
	g.enabled = true
	g.mu.Unlock()
	g.log.Debug("rating gate open")
}

// Close disables rating and clears any pending selection. Called on
// submit success and when a new generation starts.
func (g *Gate) Close() {
	g.mu.Lock()
	g.enabled = false
	g.selected = 0
	g.mu.Unlock()
	g.log.Debug("rating gate closed")
}

// Enabled reports whether a score may currently be selected.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Selected returns the pending score, 0 when none.
func (g *Gate) Selected() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Select records a pending score. Rejected while the gate is closed so
// the UI can revert its selection.
func (g *Gate) Select(score int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		g.log.Warn("score selected while gate closed")
		return domain.ErrGateClosed
	}
	if score < domain.ScoreMin || score > domain.ScoreMax {
		return domain.ErrScoreRange
	}
	g.selected = score
	g.log.Debug("score selected: %d", score)
	return nil
}

// Submit writes the current combination and pending score to the
// history store, then closes the gate. Fails without side effects
// unless the combination is ready, a score is selected and the gate
// is enabled.
func (g *Gate) Submit(ctx context.Context) (domain.Entry, error) {
	g.mu.Lock()
	if !g.ready() {
		g.mu.Unlock()
		return domain.Entry{}, domain.ErrNotReady
	}
	if !g.enabled {
		g.mu.Unlock()
		return domain.Entry{}, domain.ErrGateClosed
	}
	if g.selected == 0 {
		g.mu.Unlock()
		return domain.Entry{}, domain.ErrNoScore
	}
	text := g.current()
	score := g.selected
	g.mu.Unlock()

	entry, err := g.history.Add(ctx, text, score)
	if err != nil {
		return domain.Entry{}, err
	}

	g.Close()
	g.log.Info("rating submitted: %d/10", score)
	return entry, nil
}

// Feedback returns the presentation line for a submitted score.
// Thresholds are inclusive: ≤3, ≤6, ≤8, else.
func Feedback(score int) string {
	switch {
	case score <= 3:
		return "Aïe. La poésie est un art difficile."
	case score <= 6:
		return "Pas mal, mais la muse peut mieux faire."
	case score <= 8:
		return "Belle trouvaille !"
	default:
		return "Un chef-d'œuvre est né."
	}
}
