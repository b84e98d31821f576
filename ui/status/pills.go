package status

import (
	"fmt"

	"github.com/cf1-platform/cf1-tui/style"
)

// LoadedPill renders a pagination progress indicator, e.g. "Loaded 120/1204".
// Returns an empty string when the server total is unknown.
func LoadedPill(loaded, total int) string {
	if total <= 0 {
		return ""
	}
	loadedStr := style.StatusSegment.Render(fmt.Sprintf("%d", loaded))
	totalStr := style.Faint.Render(fmt.Sprintf("%d", total))
	return style.Faint.Render("Loaded ") + loadedStr + style.Faint.Render("/") + totalStr
}
