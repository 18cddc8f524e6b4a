// Package notify implements the notification center: one active
// notice at a time, a FIFO queue for overflow, and auto-dismissal
// after a fixed duration driven by a background tick loop.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Center)(nil)

// Notice is a single user-facing message.
type Notice struct {
	Message  string
	Kind     domain.NoticeKind
	PostedAt time.Time
}

// Option configures the center.
type Option func(*Center)

// WithDismissAfter sets how long a notice stays on screen.
func WithDismissAfter(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.dismissAfter = d
		}
	}
}

// WithTickInterval sets how often the dismiss loop checks the deadline.
func WithTickInterval(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithOnChange registers a callback fired whenever the active notice
// changes. A nil notice means the slot emptied.
func WithOnChange(fn func(*Notice)) Option {
	return func(c *Center) {
		c.onChange = fn
	}
}

// Center owns the single display slot and the overflow queue. It is an
// explicitly constructed object passed by reference from main; there
// is no process-wide instance. Safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	active   *Notice
	deadline time.Time
	queue    []Notice

	dismissAfter time.Duration
	tickInterval time.Duration
	onChange     func(*Notice)
	log          *logger.Logger

	running bool
	cancel  context.CancelFunc
}

// New creates a notification center.
func New(log *logger.Logger, opts ...Option) *Center {
	c := &Center{
		dismissAfter: 3500 * time.Millisecond,
		tickInterval: 100 * time.Millisecond,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins the background dismiss loop. Non-blocking.
func (c *Center) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.log.Warn("notification center already running")
		return
	}
	childCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	go c.loop(childCtx)
}

// Stop shuts down the dismiss loop.
func (c *Center) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.cancel()
	c.running = false
}

// Show displays a notice, or queues it when the slot is occupied.
func (c *Center) Show(message string, kind domain.NoticeKind) {
	n := Notice{Message: message, Kind: kind, PostedAt: time.Now()}

	c.mu.Lock()
	if c.active == nil {
		c.activateLocked(n)
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, n)
	c.mu.Unlock()
	c.log.Debug("notice queued (%d pending): %s", len(c.queue), message)
}

// Dismiss drops the active notice immediately and promotes the next
// queued one, if any.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissLocked()
}

// Active returns a copy of the displayed notice, nil when the slot is
// empty.
func (c *Center) Active() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	n := *c.active
	return &n
}

// Pending returns the overflow queue length.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// loop is the auto-dismiss tick cycle.
func (c *Center) loop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.tick(now)
		}
	}
}

// tick dismisses the active notice once its deadline passes.
func (c *Center) tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && now.After(c.deadline) {
		c.dismissLocked()
	}
}

func (c *Center) activateLocked(n Notice) {
	c.active = &n
	c.deadline = n.PostedAt.Add(c.dismissAfter)
	c.log.Debug("notice shown [%s]: %s", n.Kind, n.Message)
	c.fireLocked()
}

func (c *Center) dismissLocked() {
	if c.active == nil {
		return
	}
	c.active = nil
	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		next.PostedAt = time.Now()
		c.activateLocked(next)
		return
	}
	c.fireLocked()
}

// fireLocked invokes the change callback while holding the lock. The
// callback only forwards to the UI message queue and must not call
// back into the center.
func (c *Center) fireLocked() {
	if c.onChange == nil {
		return
	}
	var copyN *Notice
	if c.active != nil {
		n := *c.active
		copyN = &n
	}
	c.onChange(copyN)
}
