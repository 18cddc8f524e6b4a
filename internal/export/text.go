// Package export renders history snapshots as plain text, PDF and a
// PNG share card. All renderers are pure projections of the data they
// are given; they hold no state of their own.
package export

import (
	"fmt"
	"strings"

	"github.com/elodiecarel/reverie/internal/domain"
)

const (
	textHeader = "═══ Réverie — Historique des combinaisons ═══"
	textFooter = "— généré par réverie —"
)

// Text renders the deterministic plain-text export: header, statistics
// block, numbered entries and footer.
func Text(entries []domain.Entry, stats domain.Statistics) string {
	var b strings.Builder

	b.WriteString(textHeader)
	b.WriteString("\n\n")
	writeStats(&b, stats)
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString("(aucune entrée)\n")
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "%3d. %s — %d/10 (%s)\n",
			i+1, e.Text, e.Score, e.CreatedAt.Format("02/01/2006 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(textFooter)
	b.WriteString("\n")
	return b.String()
}

func writeStats(b *strings.Builder, stats domain.Statistics) {
	if stats.Empty() {
		b.WriteString("Aucune combinaison notée pour l'instant.\n")
		return
	}
	fmt.Fprintf(b, "Combinaisons notées : %d\n", stats.Count)
	fmt.Fprintf(b, "Note moyenne        : %s\n", stats.AverageLabel())
	fmt.Fprintf(b, "Note maximale       : %d\n", stats.Max)
	fmt.Fprintf(b, "Note minimale       : %d\n", stats.Min)
}
