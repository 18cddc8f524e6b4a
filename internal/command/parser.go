// Package command parses REPL input into application commands using
// keywords and simple patterns.
package command

import (
	"regexp"
	"strings"

	"github.com/elodiecarel/reverie/internal/logger"
)

// Type classifies what the user wants to do.
type Type int

const (
	Unknown Type = iota
	Help
	Quit
	Generate   // payload "selected" restricts to the enabled words
	ListWords  // optional payload: ordination name
	Toggle     // payload: the word
	SelectAll
	ResetWords
	Count // payload: a number, "max" or "surprise"
	Rate  // payload: the score
	Submit
	History
	Stats
	Sort // payload: "asc" or "desc"
	Mix
	Clear
	Confirm
	Export // payload: "text", "pdf" or "image"
	Share  // payload: platform name
	Copy
)

// String returns a human-readable command type.
func (t Type) String() string {
	switch t {
	case Help:
		return "help"
	case Quit:
		return "quit"
	case Generate:
		return "generate"
	case ListWords:
		return "list_words"
	case Toggle:
		return "toggle"
	case SelectAll:
		return "select_all"
	case ResetWords:
		return "reset_words"
	case Count:
		return "count"
	case Rate:
		return "rate"
	case Submit:
		return "submit"
	case History:
		return "history"
	case Stats:
		return "stats"
	case Sort:
		return "sort"
	case Mix:
		return "mix"
	case Clear:
		return "clear"
	case Confirm:
		return "confirm"
	case Export:
		return "export"
	case Share:
		return "share"
	case Copy:
		return "copy"
	default:
		return "unknown"
	}
}

// Command is a parsed user action.
type Command struct {
	Type    Type
	Payload string
}

// Parser matches user input to commands. French and English synonyms
// are both accepted.
type Parser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	cmd     Type
	payload int // capture group index carrying the payload, 0 for none
}

// NewParser creates a keyword-based command parser.
func NewParser(log *logger.Logger) *Parser {
	p := &Parser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(help|h|\?|aide)$`), Help, 0},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), Quit, 0},
		{regexp.MustCompile(`(?i)^(generate|g|go|génère|genere)(\s+(selected|sel|sélection|selection))?$`), Generate, 3},
		{regexp.MustCompile(`(?i)^(words|mots|w)(\s+(\S+))?$`), ListWords, 3},
		{regexp.MustCompile(`(?i)^(toggle|t)\s+(\S+)$`), Toggle, 2},
		{regexp.MustCompile(`(?i)^(all|tous|select all)$`), SelectAll, 0},
		{regexp.MustCompile(`(?i)^(reset|réinit|reinit)$`), ResetWords, 0},
		{regexp.MustCompile(`(?i)^count\s+(\d+|max|surprise)$`), Count, 1},
		{regexp.MustCompile(`(?i)^(rate|note)\s+(\d{1,2})$`), Rate, 2},
		{regexp.MustCompile(`(?i)^(submit|valider|ok)$`), Submit, 0},
		{regexp.MustCompile(`(?i)^(history|historique)$`), History, 0},
		{regexp.MustCompile(`(?i)^(stats|statistiques)$`), Stats, 0},
		{regexp.MustCompile(`(?i)^sort\s+(asc|desc)$`), Sort, 1},
		{regexp.MustCompile(`(?i)^(mix|shuffle|mélange|melange)$`), Mix, 0},
		{regexp.MustCompile(`(?i)^(clear|effacer)$`), Clear, 0},
		{regexp.MustCompile(`(?i)^(yes|y|oui)$`), Confirm, 0},
		{regexp.MustCompile(`(?i)^export\s+(text|txt|pdf|image|png)$`), Export, 1},
		{regexp.MustCompile(`(?i)^share\s+(\S+)$`), Share, 1},
		{regexp.MustCompile(`(?i)^(copy|copier)$`), Copy, 0},
	}
	return p
}

// Parse converts one input line into a command. A bare number is a
// rating shortcut.
func (p *Parser) Parse(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Type: Unknown}
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Rating shortcut: "7" means "rate 7".
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return Command{Type: Rate, Payload: trimmed}
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		cmd := Command{Type: rule.cmd}
		if rule.payload > 0 && rule.payload < len(m) {
			cmd.Payload = strings.TrimSpace(m[rule.payload])
			// Words are case-sensitive ("Je"); everything else is not.
			if rule.cmd != Toggle {
				cmd.Payload = strings.ToLower(cmd.Payload)
			}
		}
		p.log.Debug("matched command: %s (payload=%q)", cmd.Type, cmd.Payload)
		return cmd
	}

	p.log.Debug("no match, returning unknown command")
	return Command{Type: Unknown, Payload: trimmed}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
