// Package feed renders the platform activity stream as a virtualized
// variable-height list. Plain transfers occupy a single row; governance
// events carry extra detail lines.
package feed

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/common"
	"github.com/cf1-platform/cf1-tui/ui/vlist"
)

// NeedMoreMsg is emitted when the viewport settles near the end of the
// loaded entries and another page should be requested.
type NeedMoreMsg struct{}

// loadMoreSlack is how many rows from the bottom still trigger a page
// request.
const loadMoreSlack = 10

// Model is the activity feed view.
type Model struct {
	list    vlist.Model
	entries []client.ActivityEntry
	width   int
	height  int
}

// New creates an empty feed sized to zero. Call SetSize before View.
func New() Model {
	m := Model{}
	m.list = vlist.New(
		vlist.WithHeightPolicy(vlist.HeightFunc(entryHeight)),
		vlist.WithRenderItem(renderEntry),
	)
	return m
}

// SetEntries replaces the feed contents, keeping scroll position.
func (m *Model) SetEntries(entries []client.ActivityEntry) {
	m.entries = entries
	items := make([]vlist.Item, len(entries))
	for i, e := range entries {
		items[i] = vlist.Item{ID: e.ID, Data: e}
	}
	m.list.SetItems(items)
}

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

// List exposes the underlying virtualized list for scroll commands.
func (m *Model) List() *vlist.Model { return &m.list }

// Len returns the number of loaded entries.
func (m Model) Len() int { return len(m.entries) }

// Update forwards input to the list and emits NeedMoreMsg when the
// scroll settles within loadMoreSlack rows of the loaded end.
func (m Model) Update(tmsg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	settled := false
	if s, ok := tmsg.(vlist.ScrollSettledMsg); ok {
		settled = m.list.Settled(s)
	}
	m.list, cmd = m.list.Update(tmsg)
	if settled && m.nearBottom() {
		return m, tea.Batch(cmd, func() tea.Msg { return NeedMoreMsg{} })
	}
	return m, cmd
}

// Close releases the list resources.
func (m *Model) Close() {
	m.list.Close()
}

// View renders the visible slice of the feed with a scrollbar column.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	body := m.list.View()
	bar := common.Scrollbar(m.height, m.list.TotalHeight(), m.list.ScrollState().Top)
	if bar == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	barLines := strings.Split(bar, "\n")
	for i := range lines {
		pad := m.width - 1
		lines[i] = common.PadRight(ansi.Truncate(lines[i], pad, "…"), pad)
		if i < len(barLines) {
			lines[i] += barLines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) nearBottom() bool {
	bottom := m.list.ScrollState().Top + m.height
	return m.list.TotalHeight()-bottom <= loadMoreSlack
}

// entryHeight is one row for the event line plus one per detail line.
func entryHeight(item vlist.Item, _ int) int {
	e, ok := item.Data.(client.ActivityEntry)
	if !ok {
		return 1
	}
	if e.Detail == "" {
		return 1
	}
	return 1 + strings.Count(e.Detail, "\n") + 1
}

// renderEntry draws one activity event:
//
//	10:00 investment neutron1h4f…y0a → prop-1  $2.5k
//	        Updated funding deadline
func renderEntry(item vlist.Item, _ int, width int) string {
	e, ok := item.Data.(client.ActivityEntry)
	if !ok {
		return ""
	}

	kind := kindStyle(e.Kind).Render(common.PadRight(e.Kind, 10))
	ts := style.Timestamp.Render(shortTime(e.Timestamp))
	actor := style.ActivityActor.Render(common.ShortAddr(e.Actor))

	line := ts + " " + kind + " " + actor
	if e.Proposal != "" {
		line += style.Faint.Render(" → " + e.Proposal)
	}
	if e.Amount != "" {
		line += "  " + style.ActivityAmount.Render(common.FormatAmount(e.Amount))
	}

	out := ansi.Truncate(line, width, "…")
	if e.Detail != "" {
		for _, dl := range strings.Split(e.Detail, "\n") {
			out += "\n" + style.Faint.Render(common.Truncate("        "+dl, width))
		}
	}
	return out
}

func kindStyle(kind string) lipgloss.Style {
	switch kind {
	case "investment":
		return style.ActivityInvestment
	case "refund":
		return style.ActivityRefund
	case "governance":
		return style.ActivityGovernance
	default:
		return style.Faint
	}
}

// shortTime trims an RFC3339 timestamp to its HH:MM component; anything
// unparseable passes through.
func shortTime(ts string) string {
	if len(ts) >= 16 && ts[10] == 'T' {
		return ts[11:16]
	}
	return ts
}
