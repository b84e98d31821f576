// Package status provides the bottom status bar model for the CF1 TUI.
// It renders item counts, the materialized row window, scroll position,
// and the active sort.
package status

import (
	"fmt"
	"strings"

	"github.com/cf1-platform/cf1-tui/style"
)

// Model is the status bar state. Drive it via setter methods; it has no
// Update loop.
type Model struct {
	total         int
	rangeStart    int
	rangeEnd      int
	scrollPct     int
	sortColumn    string
	sortDirection string
	serverTotal   int
	loading       bool
	network       string
	err           string
}

// New returns a zero-value Model.
func New() Model {
	return Model{}
}

// SetWindow updates the materialized row window and scroll percentage.
func (m *Model) SetWindow(total, start, end, pct int) {
	m.total = total
	m.rangeStart = start
	m.rangeEnd = end
	m.scrollPct = pct
}

// SetSort updates the active sort display. Empty column clears it.
func (m *Model) SetSort(column, direction string) {
	m.sortColumn = column
	m.sortDirection = direction
}

// SetServerTotal stores the backend's reported collection size, shown as
// a "Loaded N/M" pill while more pages remain.
func (m *Model) SetServerTotal(total int) {
	m.serverTotal = total
}

// SetLoading toggles the paging indicator.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetNetwork stores the chain network name from the health check.
func (m *Model) SetNetwork(network string) {
	m.network = network
}

// SetError shows a sticky error segment. Empty clears it.
func (m *Model) SetError(errText string) {
	m.err = errText
}

// View renders the status line:
//
//	1,204 items · rows 95–116 · 48% · sort: expected_apy ▼ · loading…
func (m Model) View() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d items", m.total))
	if m.total > 0 && m.rangeEnd >= m.rangeStart {
		parts = append(parts, fmt.Sprintf("rows %d–%d", m.rangeStart+1, m.rangeEnd+1))
		parts = append(parts, fmt.Sprintf("%d%%", m.scrollPct))
	}
	if m.sortColumn != "" {
		arrow := "▲"
		if m.sortDirection == "desc" {
			arrow = "▼"
		}
		parts = append(parts, style.StatusSegment.Render(fmt.Sprintf("sort: %s %s", m.sortColumn, arrow)))
	}
	if m.serverTotal > m.total {
		parts = append(parts, LoadedPill(m.total, m.serverTotal))
	}
	if m.network != "" {
		parts = append(parts, style.Faint.Render(m.network))
	}
	if m.loading {
		parts = append(parts, style.StatusLoading.Render("loading…"))
	}
	if m.err != "" {
		parts = append(parts, style.ErrorText.Render(m.err))
	}

	return style.StatusBar.Render(strings.Join(parts, " · "))
}
