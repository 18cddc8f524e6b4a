package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/elodiecarel/reverie/internal/domain"
)

// entriesPerPage is the fixed page-break threshold of the PDF export.
const entriesPerPage = 25

// PDF renders the history as a paginated A4 document with the same
// logical content as the plain-text export.
func PDF(entries []domain.Entry, stats domain.Statistics) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr("Réverie — Historique"), true)

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr("Réverie — Historique des combinaisons"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	if stats.Empty() {
		doc.CellFormat(0, 6, tr("Aucune combinaison notée pour l'instant."), "", 1, "L", false, 0, "")
	} else {
		doc.CellFormat(0, 6, tr(fmt.Sprintf("Combinaisons notées : %d", stats.Count)), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, tr(fmt.Sprintf("Note moyenne : %s — max %d, min %d",
			stats.AverageLabel(), stats.Max, stats.Min)), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 10)
	for i, e := range entries {
		if i > 0 && i%entriesPerPage == 0 {
			doc.AddPage()
		}
		line := fmt.Sprintf("%3d. %s — %d/10 (%s)",
			i+1, e.Text, e.Score, e.CreatedAt.Format("02/01/2006 15:04"))
		doc.MultiCell(0, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
