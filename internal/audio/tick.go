// Package audio synthesizes and plays the short keystroke tick heard
// during combination reveals, via oto.
package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/elodiecarel/reverie/internal/domain"
	"github.com/elodiecarel/reverie/internal/logger"
)

// Audio parameters for the synthesized tick.
const (
	sampleRate   = 44100
	channelCount = 1

	baseFrequency = 1100.0 // Hz
	baseDuration  = 28 * time.Millisecond
)

// Compile-time interface check.
var _ domain.TickPlayer = (*Player)(nil)

// Player synthesizes tick PCM on demand and plays it through the
// system audio device. Playback is fire-and-forget.
type Player struct {
	ctx *oto.Context
	log *logger.Logger
}

// NewPlayer initializes the system audio context. Returns an error if
// the audio device is unavailable; callers fall back to the no-op
// player in that case.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, channelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// PlayTick plays one tick. rate shifts pitch and duration around the
// base sound; the engine varies it ±10% per character. Never returns
// an error: playback problems are logged and swallowed.
func (p *Player) PlayTick(volume, rate float64) {
	volume = clamp(volume, 0, 1)
	rate = clamp(rate, 0.5, 2)

	pcm := synthTick(volume, rate)
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	// Reap the player once playback finishes.
	go func() {
		for player.IsPlaying() {
			time.Sleep(5 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.Debug("closing tick player: %v", err)
		}
	}()
}

// synthTick renders a short decaying sine burst as 16-bit LE PCM.
// A higher rate raises the pitch and shortens the burst, mimicking a
// faster sample playback.
func synthTick(volume, rate float64) []byte {
	freq := baseFrequency * rate
	samples := int(float64(sampleRate) * baseDuration.Seconds() / rate)
	if samples < 1 {
		samples = 1
	}

	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		decay := math.Exp(-t * 180)
		v := math.Sin(2*math.Pi*freq*t) * decay * volume
		s := int16(v * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
