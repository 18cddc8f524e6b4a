package domain

import "context"

// TickPlayer emits the short keystroke sound played for every revealed
// character. Implementations must be fire-and-forget and never panic;
// a failed tick is logged and swallowed, never surfaced to the caller.
type TickPlayer interface {
	PlayTick(volume, rate float64)
}

// StateStore persists opaque application state blobs keyed by name.
// Implementations can be file-based or in-memory. Load returns
// ErrNotFound (possibly wrapped) when the key has never been saved.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// String returns a human-readable notice kind.
func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier delivers user-facing notices. The display implementation
// shows one notice at a time and queues the rest.
type Notifier interface {
	Show(message string, kind NoticeKind)
}
