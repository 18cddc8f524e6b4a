package domain

import (
	"testing"
	"time"
)

func TestEntryValid(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"valid", Entry{ID: "a", Text: "Je suis rêveur.", Score: 7, CreatedAt: time.Now()}, true},
		{"score at min", Entry{Text: "Je suis rêveur.", Score: ScoreMin}, true},
		{"score at max", Entry{Text: "Je suis rêveur.", Score: ScoreMax}, true},
		{"empty text", Entry{Score: 5}, false},
		{"score below min", Entry{Text: "Je suis rêveur.", Score: 0}, false},
		{"score above max", Entry{Text: "Je suis rêveur.", Score: 11}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatisticsAverageLabel(t *testing.T) {
	if got := (Statistics{}).AverageLabel(); got != "–" {
		t.Fatalf("empty label = %q, want dash", got)
	}
	s := Statistics{Count: 2, Average: 6.5}
	if got := s.AverageLabel(); got != "6.50" {
		t.Fatalf("label = %q, want \"6.50\"", got)
	}
}
