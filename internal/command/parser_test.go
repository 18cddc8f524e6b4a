package command

import (
	"testing"

	"github.com/elodiecarel/reverie/internal/logger"
)

func TestParse(t *testing.T) {
	p := NewParser(logger.New(logger.LevelOff, nil))

	tests := []struct {
		name    string
		input   string
		want    Type
		payload string
	}{
		{"help", "help", Help, ""},
		{"help french", "aide", Help, ""},
		{"help question mark", "?", Help, ""},
		{"quit", "quit", Quit, ""},
		{"quit short", "q", Quit, ""},
		{"generate", "generate", Generate, ""},
		{"generate french accent", "génère", Generate, ""},
		{"generate selected", "generate selected", Generate, "selected"},
		{"generate sel short", "g sel", Generate, "sel"},
		{"words", "mots", ListWords, ""},
		{"words with ordination", "words alphabétique", ListWords, "alphabétique"},
		{"toggle keeps case", "toggle Je", Toggle, "Je"},
		{"toggle accented word", "t rêveur", Toggle, "rêveur"},
		{"select all", "tous", SelectAll, ""},
		{"reset", "reset", ResetWords, ""},
		{"count number", "count 3", Count, "3"},
		{"count max", "count max", Count, "max"},
		{"count surprise", "count surprise", Count, "surprise"},
		{"rate", "note 9", Rate, "9"},
		{"rate shortcut", "7", Rate, "7"},
		{"rate shortcut two digits", "10", Rate, "10"},
		{"submit", "submit", Submit, ""},
		{"submit french", "valider", Submit, ""},
		{"history", "historique", History, ""},
		{"stats", "stats", Stats, ""},
		{"sort asc", "sort asc", Sort, "asc"},
		{"sort desc", "SORT DESC", Sort, "desc"},
		{"mix", "mélange", Mix, ""},
		{"clear", "effacer", Clear, ""},
		{"confirm", "oui", Confirm, ""},
		{"export text", "export text", Export, "text"},
		{"export pdf", "export pdf", Export, "pdf"},
		{"export image", "export image", Export, "image"},
		{"share", "share Twitter", Share, "twitter"},
		{"copy", "copier", Copy, ""},
		{"whitespace tolerated", "  generate  ", Generate, ""},
		{"empty", "", Unknown, ""},
		{"gibberish", "frobnicate", Unknown, "frobnicate"},
		{"three digit number is not a rating", "100", Unknown, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.input)
			if got.Type != tt.want {
				t.Fatalf("Parse(%q).Type = %s, want %s", tt.input, got.Type, tt.want)
			}
			if got.Payload != tt.payload {
				t.Fatalf("Parse(%q).Payload = %q, want %q", tt.input, got.Payload, tt.payload)
			}
		})
	}
}
