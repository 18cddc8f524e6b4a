package share

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copy places text on the system clipboard. Callers fall back to
// printing the text when no clipboard is available.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
