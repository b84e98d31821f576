package app

const (
	// Minimum usable terminal size; below this we still render but clamp.
	minContentWidth  = 40
	minContentHeight = 5
)

// Layout holds computed dimensions for the current frame.
type Layout struct {
	TermWidth     int
	TermHeight    int
	HeaderHeight  int // title line + separator
	StatusHeight  int
	ContentWidth  int // width available for the active tab
	ContentHeight int // height available for the active tab
}

// ComputeLayout calculates the frame dimensions from the terminal size.
// Header (2 lines) and status bar (1 line) are fixed; the active tab gets
// the remainder, clamped so tiny terminals still produce a sane frame.
func ComputeLayout(termW, termH int) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: 2,
		StatusHeight: 1,
	}

	l.ContentWidth = termW
	if l.ContentWidth < minContentWidth {
		l.ContentWidth = minContentWidth
	}

	l.ContentHeight = termH - l.HeaderHeight - l.StatusHeight
	if l.ContentHeight < minContentHeight {
		l.ContentHeight = minContentHeight
	}

	return l
}
