package engine

// recentWindow remembers the last few accepted sentences so new
// generations can be biased away from immediate repeats. Soft
// constraint only: the engine gives up after a fixed retry budget.
type recentWindow struct {
	capacity int
	items    []string
}

func newRecentWindow(capacity int) *recentWindow {
	return &recentWindow{capacity: capacity}
}

// Contains reports whether the sentence was produced recently.
func (w *recentWindow) Contains(sentence string) bool {
	for _, s := range w.items {
		if s == sentence {
			return true
		}
	}
	return false
}

// Push records an accepted sentence, evicting the oldest when full.
func (w *recentWindow) Push(sentence string) {
	if len(w.items) >= w.capacity {
		w.items = w.items[1:]
	}
	w.items = append(w.items, sentence)
}
