// Package engine implements the combination generator: sampling words
// from the enabled pool, formatting them into a sentence and driving
// the timed character-by-character reveal.
package engine

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
	"github.com/elodiecarel/reverie/internal/words"
)

// tickRateJitter is the playback-rate spread applied to each character
// tick so the reveal doesn't sound mechanical.
const tickRateJitter = 0.10

// Option configures the engine.
type Option func(*Engine)

// WithRevealInterval sets the delay between revealed characters.
func WithRevealInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.revealInterval = d
		}
	}
}

// WithRetryAttempts sets how many resamples are allowed before a
// repeated combination is accepted anyway.
func WithRetryAttempts(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.retryAttempts = n
		}
	}
}

// WithRecentWindow sets the capacity of the repeat-avoidance window.
func WithRecentWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.recent = newRecentWindow(n)
		}
	}
}

// WithRand sets the random source. Used by tests for determinism.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithTickPlayer sets the audio sink fired for each revealed
// non-space character.
func WithTickPlayer(p domain.TickPlayer) Option {
	return func(e *Engine) {
		e.tick = p
	}
}

// WithTickVolume sets the tick playback volume in [0, 1].
func WithTickVolume(v float64) Option {
	return func(e *Engine) {
		if v >= 0 && v <= 1 {
			e.tickVolume = v
		}
	}
}

// WithOnReveal registers a callback receiving the partially revealed
// sentence after every emitted character.
func WithOnReveal(fn func(revealed string)) Option {
	return func(e *Engine) {
		e.onReveal = fn
	}
}

// WithOnReady registers a callback fired once per generation, when the
// reveal has fully completed. The rating gate opens here.
func WithOnReady(fn func()) Option {
	return func(e *Engine) {
		e.onReady = fn
	}
}

// WithOnGenerate registers a callback fired when a generation is
// accepted, before the reveal starts. The rating gate closes here.
func WithOnGenerate(fn func()) Option {
	return func(e *Engine) {
		e.onGenerate = fn
	}
}

// Engine produces combinations from the word set and reveals them one
// character at a time. Only one generation may be in flight; re-entrant
// Generate calls are rejected, not queued.
type Engine struct {
	words *words.Set
	log   *logger.Logger

	mu           sync.Mutex
	phase        domain.Phase
	current      string
	revealed     string
	countRule    domain.CountRule
	recent       *recentWindow
	rng          *rand.Rand
	cancelReveal context.CancelFunc

	revealInterval time.Duration
	retryAttempts  int
	tick           domain.TickPlayer
	tickVolume     float64
	onReveal       func(string)
	onReady        func()
	onGenerate     func()
}

// New creates an engine over the given word set.
func New(set *words.Set, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		words:          set,
		log:            log,
		phase:          domain.PhaseIdle,
		countRule:      domain.CountRule{Mode: domain.CountSurprise},
		recent:         newRecentWindow(10),
		rng:            rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		revealInterval: 45 * time.Millisecond,
		retryAttempts:  5,
		tickVolume:     0.8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetCountRule changes the word-count control for the next generation.
// A fixed count below 1 is rejected.
func (e *Engine) SetCountRule(rule domain.CountRule) error {
	if rule.Mode == domain.CountFixed && rule.Fixed < 1 {
		return domain.ErrScoreRange
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.countRule = rule
	e.log.Debug("count rule -> %s (fixed=%d)", rule.Mode, rule.Fixed)
	return nil
}

// CountRule returns the current word-count control.
func (e *Engine) CountRule() domain.CountRule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countRule
}

// Generate picks, formats and commits a new combination, then starts
// its reveal. Returns ErrBusy while a previous generation is still
// revealing and ErrNoCandidates when the pool is empty.
func (e *Engine) Generate(ctx context.Context, onlySelected bool) error {
	e.mu.Lock()

	if e.phase == domain.PhaseGenerating || e.phase == domain.PhaseRevealing {
		e.mu.Unlock()
		e.log.Warn("generate rejected: already in progress")
		return domain.ErrBusy
	}

	var pool []string
	if onlySelected {
		pool = e.words.Selected()
	} else {
		pool = e.words.All()
	}
	if len(pool) == 0 {
		e.mu.Unlock()
		e.log.Warn("generate rejected: empty candidate pool (onlySelected=%v)", onlySelected)
		return domain.ErrNoCandidates
	}

	e.phase = domain.PhaseGenerating
	count := e.resolveCountLocked(len(pool), onlySelected)
	sentence := e.composeLocked(pool, count)
	e.recent.Push(sentence)
	e.current = sentence
	e.revealed = ""

	revealCtx, cancel := context.WithCancel(ctx)
	e.cancelReveal = cancel
	e.phase = domain.PhaseRevealing
	runes := []rune(sentence)
	e.log.Info("generated %q (%d words)", sentence, count)
	e.mu.Unlock()

	if e.onGenerate != nil {
		e.onGenerate()
	}
	go e.reveal(revealCtx, runes)
	return nil
}

// Reset cancels any pending reveal and clears the current combination.
func (e *Engine) Reset() {
	e.mu.Lock()
	if e.cancelReveal != nil {
		e.cancelReveal()
		e.cancelReveal = nil
	}
	e.phase = domain.PhaseIdle
	e.current = ""
	e.revealed = ""
	e.mu.Unlock()
	e.log.Debug("engine reset")
}

// Current returns the committed combination, empty when none exists.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Revealed returns the portion of the current combination shown so far.
func (e *Engine) Revealed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revealed
}

// Phase returns the current engine phase.
func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Ready reports whether a combination exists and its reveal finished.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == domain.PhaseReady
}

// Busy reports whether a generation is in flight. Covers the whole
// span from the Generate call to reveal completion; rating is blocked
// for that entire duration.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == domain.PhaseGenerating || e.phase == domain.PhaseRevealing
}

// resolveCountLocked determines how many words the next combination gets.
func (e *Engine) resolveCountLocked(available int, onlySelected bool) int {
	if onlySelected {
		return available
	}
	switch e.countRule.Mode {
	case domain.CountFixed:
		n := e.countRule.Fixed
		if n > available {
			n = available
		}
		if n < 1 {
			n = 1
		}
		return n
	case domain.CountMax:
		return available
	default: // CountSurprise
		return 1 + e.rng.IntN(available)
	}
}

// composeLocked samples and formats a sentence, resampling when it is
// in the recent window. After retryAttempts failed attempts the last
// sample is accepted regardless of repetition.
func (e *Engine) composeLocked(pool []string, count int) string {
	for attempt := 0; ; attempt++ {
		sentence := Format(e.sampleLocked(pool, count))
		if attempt >= e.retryAttempts || !e.recent.Contains(sentence) {
			if attempt > 0 {
				e.log.Debug("repeat avoidance used %d resample(s)", attempt)
			}
			return sentence
		}
	}
}

// sampleLocked uniformly samples count words without replacement, then
// shuffles the sample so sentence position is independent of
// vocabulary order.
func (e *Engine) sampleLocked(pool []string, count int) []string {
	idx := e.rng.Perm(len(pool))
	tokens := make([]string, count)
	for i := range tokens {
		tokens[i] = pool[idx[i]]
	}
	e.rng.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
	return tokens
}

// reveal emits the sentence one character per tick, firing the audio
// tick for every non-space character. Cancelled by Reset or when the
// parent context ends.
func (e *Engine) reveal(ctx context.Context, runes []rune) {
	ticker := time.NewTicker(e.revealInterval)
	defer ticker.Stop()

	for i := 0; i < len(runes); i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		if ctx.Err() != nil {
			e.mu.Unlock()
			return
		}
		e.revealed = string(runes[:i+1])
		snapshot := e.revealed
		rate := 1 + (e.rng.Float64()*2-1)*tickRateJitter
		e.mu.Unlock()

		if !unicode.IsSpace(runes[i]) && e.tick != nil {
			e.tick.PlayTick(e.tickVolume, rate)
		}
		if e.onReveal != nil {
			e.onReveal(snapshot)
		}
	}

	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	e.phase = domain.PhaseReady
	e.cancelReveal = nil
	e.mu.Unlock()

	e.log.Debug("reveal complete")
	if e.onReady != nil {
		e.onReady()
	}
}

// Format joins tokens into a sentence: first token capitalized, the
// literal token "Je" lowercased anywhere else (a French grammar
// fix-up, not a general rule), single spaces, trailing period.
func Format(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		switch {
		case i == 0:
			out[i] = capitalize(tok)
		case tok == "Je":
			out[i] = "je"
		default:
			out[i] = tok
		}
	}
	return strings.Join(out, " ") + "."
}

// capitalize uppercases the first rune, leaving the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
