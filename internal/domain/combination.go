package domain

// Phase tracks the lifecycle of a combination inside the engine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseRevealing
	PhaseReady
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGenerating:
		return "generating"
	case PhaseRevealing:
		return "revealing"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// CountMode selects how many words go into a combination when the user
// has not asked for the full selection.
type CountMode int

const (
	// CountSurprise picks a uniform random count in [1, available].
	CountSurprise CountMode = iota
	// CountFixed uses a user-chosen count, clamped to the pool size.
	CountFixed
	// CountMax uses every available word.
	CountMax
)

// String returns a human-readable count mode.
func (m CountMode) String() string {
	switch m {
	case CountSurprise:
		return "surprise"
	case CountFixed:
		return "fixed"
	case CountMax:
		return "max"
	default:
		return "unknown"
	}
}

// CountRule is the word-count control for the next generation.
type CountRule struct {
	Mode  CountMode
	Fixed int // only meaningful when Mode == CountFixed
}
