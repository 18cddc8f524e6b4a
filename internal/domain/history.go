package domain

import (
	"fmt"
	"time"
)

// Score bounds for a rated combination.
const (
	ScoreMin = 1
	ScoreMax = 10
)

// Entry is one rated combination in the history log.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the entry passes the insertion invariants.
// Used both when adding entries and when deserializing persisted data,
// so corrupt records are dropped instead of propagated.
func (e Entry) Valid() bool {
	return e.Text != "" && e.Score >= ScoreMin && e.Score <= ScoreMax
}

// Statistics summarizes all scores in the history.
// A zero Count marks the "no data" sentinel; Average/Max/Min are then
// meaningless and must not be rendered as numbers.
type Statistics struct {
	Count   int
	Average float64 // rounded to 2 decimals
	Max     int
	Min     int
}

// Empty reports whether there is no data to summarize.
func (s Statistics) Empty() bool { return s.Count == 0 }

// AverageLabel renders the average as a fixed 2-decimal string, or a
// dash when there is no data.
func (s Statistics) AverageLabel() string {
	if s.Empty() {
		return "–"
	}
	return fmt.Sprintf("%.2f", s.Average)
}
