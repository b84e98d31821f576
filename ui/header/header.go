// Package header renders the one-line title bar and tab strip for the
// CF1 TUI.
package header

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/cf1-platform/cf1-tui/msg"
	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/common"
)

// Tab names in display order.
var Tabs = []string{"proposals", "activity"}

// Model holds the state for the compact TUI header.
type Model struct {
	version     string
	network     string
	blockHeight int64
	healthy     bool
	activeTab   string
	width       int
}

// New returns a Model with the default version string.
func New() Model {
	return Model{version: "v0.1.0", activeTab: Tabs[0]}
}

// SetHealth applies network info from a health-check result.
func (m *Model) SetHealth(h msg.HealthResult) {
	m.healthy = h.Err == nil
	m.network = h.Network
	m.blockHeight = h.BlockHeight
	if h.Version != "" {
		m.version = h.Version
	}
}

// SetActiveTab updates the highlighted tab.
func (m *Model) SetActiveTab(tab string) { m.activeTab = tab }

// SetWidth updates the terminal width used for separator sizing.
func (m *Model) SetWidth(w int) { m.width = w }

// ActiveTab returns the currently highlighted tab name.
func (m Model) ActiveTab() string { return m.activeTab }

// Network returns the chain network name, empty before the health check.
func (m Model) Network() string { return m.network }

// View returns the title line, tab strip and a thin separator:
//
//	CF1 Launchpad v0.1.0 · ● neutron-1 · #12840233    proposals │ activity
//	────────────────────────────────────────────────────────────────────
func (m Model) View() string {
	title := style.ApplyBoldForegroundGrad("CF1 Launchpad")
	sep := style.Faint.Render(" · ")

	left := title + " " + style.HeaderVersion.Render(m.version)
	if m.network != "" {
		left += sep + common.StatusBadge(style.HeaderNetwork.Render(m.network), m.healthy)
	}
	if m.blockHeight > 0 {
		left += sep + style.Faint.Render(fmt.Sprintf("#%d", m.blockHeight))
	}

	tabs := m.tabStrip()
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(tabs)
	if pad < 1 {
		pad = 1
	}
	line := left + strings.Repeat(" ", pad) + tabs

	rule := style.HeaderSeparator.Render(strings.Repeat("─", max(m.width, 1)))
	return line + "\n" + rule
}

func (m Model) tabStrip() string {
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if tab == m.activeTab {
			parts[i] = style.TabActive.Render(tab)
		} else {
			parts[i] = style.TabInactive.Render(tab)
		}
	}
	return strings.Join(parts, style.Hint.Render(" │ "))
}
