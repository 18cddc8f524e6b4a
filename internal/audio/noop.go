package audio

import (
	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Compile-time interface check.
var _ domain.TickPlayer = (*Noop)(nil)

// Noop is a tick player that does nothing. Used when audio is disabled
// or the audio device is unavailable.
type Noop struct {
	log *logger.Logger
}

// NewNoop creates a silent tick player.
func NewNoop(log *logger.Logger) *Noop {
	return &Noop{log: log}
}

// PlayTick does nothing.
func (n *Noop) PlayTick(volume, rate float64) {
	n.log.Debug("audio no-op: tick (volume=%.2f, rate=%.2f)", volume, rate)
}
