// Package common — dedicated scrollbar component for the CF1 TUI.
package common

import (
	"strings"

	"github.com/cf1-platform/cf1-tui/style"
)

// Scrollbar renders a one-cell-wide vertical scrollbar: a track of
// viewportHeight rows with a thumb sized and positioned proportionally to
// the visible slice of the content. Content that fits the viewport yields
// an empty string so callers can skip the column entirely.
func Scrollbar(viewportHeight, contentHeight, offset int) string {
	if viewportHeight <= 0 || contentHeight <= viewportHeight {
		return ""
	}

	thumb := max(1, viewportHeight*viewportHeight/contentHeight)
	travel := viewportHeight - thumb
	top := 0
	if scrollable := contentHeight - viewportHeight; travel > 0 && scrollable > 0 {
		top = max(0, min(travel, offset*travel/scrollable))
	}

	var b strings.Builder
	for i := 0; i < viewportHeight; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= top && i < top+thumb {
			b.WriteString(style.ScrollbarThumb.Render("█"))
		} else {
			b.WriteString(style.ScrollbarTrack.Render("│"))
		}
	}
	return b.String()
}
