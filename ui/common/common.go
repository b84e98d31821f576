// Package common provides shared rendering helpers and formatting utilities
// used across all CF1 TUI components.
package common

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/cf1-platform/cf1-tui/style"
)

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

// CappedWidth returns width capped at maxWidth for readability.
// If maxWidth <= 0, 120 is used as the default cap.
func CappedWidth(width, maxWidth int) int {
	cap := maxWidth
	if cap <= 0 {
		cap = 120
	}
	if width > cap {
		return cap
	}
	return width
}

// ---------------------------------------------------------------------------
// Text truncation / padding
// ---------------------------------------------------------------------------

// Truncate shortens s to maxLen runes, appending "…" if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// PadRight pads s on the right with spaces until the rendered display width
// equals width. Returns s unchanged if it already meets or exceeds width.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Divider returns a horizontal rule of the given width rendered in the border color.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(style.Border).Render(strings.Repeat("─", width))
}

// WrapText hard-wraps text so that no rendered line exceeds width columns.
// Existing newlines are preserved; long words are not split.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	paragraphs := strings.Split(text, "\n")
	for i, para := range paragraphs {
		if i > 0 {
			out.WriteByte('\n')
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		lineLen := 0
		for j, word := range words {
			wLen := lipgloss.Width(word)
			if j == 0 {
				out.WriteString(word)
				lineLen = wLen
				continue
			}
			if lineLen+1+wLen > width {
				out.WriteByte('\n')
				out.WriteString(word)
				lineLen = wLen
			} else {
				out.WriteByte(' ')
				out.WriteString(word)
				lineLen += 1 + wLen
			}
		}
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Human-readable formatters
// ---------------------------------------------------------------------------

// FormatAmount formats a decimal amount string as a compact dollar figure.
//
//	"5000000" → "$5.0M"
//	"12500"   → "$12.5k"
//	"850"     → "$850"
//
// Non-numeric input is returned unchanged.
func FormatAmount(amount string) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fk", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatAPY renders an APY decimal string as a percentage, e.g. "12.5" → "12.5%".
func FormatAPY(apy string) string {
	if apy == "" {
		return "—"
	}
	return apy + "%"
}

// ShortAddr abbreviates a bech32 address for display:
//
//	"neutron1h4fz0qcmxxn4qk6y0..." → "neutron1h4f…6y0"
//
// Addresses of 16 runes or fewer are returned unchanged.
func ShortAddr(addr string) string {
	runes := []rune(addr)
	if len(runes) <= 16 {
		return addr
	}
	return string(runes[:12]) + "…" + string(runes[len(runes)-3:])
}

// FundingRatio computes raised/target from decimal strings, clamped to [0,1].
// Returns 0 when either value fails to parse or target is zero.
func FundingRatio(raised, target string) float64 {
	r, err1 := strconv.ParseFloat(raised, 64)
	t, err2 := strconv.ParseFloat(target, 64)
	if err1 != nil || err2 != nil || t <= 0 {
		return 0
	}
	ratio := r / t
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// ---------------------------------------------------------------------------
// Status badge
// ---------------------------------------------------------------------------

// StatusBadge renders a health dot before label: green if ok, red
// otherwise. The label keeps whatever styling it already carries.
func StatusBadge(label string, ok bool) string {
	c := style.Error
	if ok {
		c = style.Success
	}
	return lipgloss.NewStyle().Foreground(c).Render("●") + " " + label
}
