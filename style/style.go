package style

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Colors — initialized to dark theme defaults. Updated via SetTheme().
var (
	Primary   color.Color = lipgloss.Color("#7C3AED")
	Secondary color.Color = lipgloss.Color("#06B6D4")
	Success   color.Color = lipgloss.Color("#22C55E")
	Warning   color.Color = lipgloss.Color("#F59E0B")
	Error     color.Color = lipgloss.Color("#EF4444")
	Muted     color.Color = lipgloss.Color("#6B7280")
	Dim       color.Color = lipgloss.Color("#374151")
	Border    color.Color = lipgloss.Color("#4B5563")

	ModalBgColor color.Color = lipgloss.Color("#111827")

	// Gradient endpoints — default to dark theme violet→cyan
	GradColorA color.Color = lipgloss.Color("#7C3AED")
	GradColorB color.Color = lipgloss.Color("#06B6D4")
)

// Base styles — rebuilt when the theme changes via rebuildStyles().
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	HeaderSeparator lipgloss.Style
	HeaderVersion   lipgloss.Style
	HeaderNetwork   lipgloss.Style

	// Tabs
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Table
	TableHeader     lipgloss.Style
	TableSortActive lipgloss.Style

	// Proposal status badges
	StatusActive    lipgloss.Style
	StatusFunded    lipgloss.Style
	StatusCancelled lipgloss.Style
	StatusExpired   lipgloss.Style

	// Activity feed
	ActivityInvestment lipgloss.Style
	ActivityRefund     lipgloss.Style
	ActivityGovernance lipgloss.Style
	ActivityActor      lipgloss.Style
	ActivityAmount     lipgloss.Style
	Timestamp          lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusSegment lipgloss.Style
	StatusLoading lipgloss.Style

	// Hint text
	Hint lipgloss.Style

	// -------------------------------------------------------------------------
	// Modal / Overlay (proposal detail)
	// -------------------------------------------------------------------------

	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style

	// -------------------------------------------------------------------------
	// Scrollbar
	// -------------------------------------------------------------------------

	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme, updating all color vars and rebuilding styles.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	ModalBgColor = t.ModalBg
	GradColorA = t.GradA
	GradColorB = t.GradB
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	HeaderSeparator = lipgloss.NewStyle().Foreground(Dim)
	HeaderVersion = lipgloss.NewStyle().Foreground(Muted)
	HeaderNetwork = lipgloss.NewStyle().Foreground(Secondary)

	TabActive = lipgloss.NewStyle().Foreground(Primary).Bold(true).Underline(true)
	TabInactive = lipgloss.NewStyle().Foreground(Muted)

	TableHeader = lipgloss.NewStyle().Foreground(Muted).Bold(true)
	TableSortActive = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	StatusActive = lipgloss.NewStyle().Foreground(Success)
	StatusFunded = lipgloss.NewStyle().Foreground(Secondary)
	StatusCancelled = lipgloss.NewStyle().Foreground(Error)
	StatusExpired = lipgloss.NewStyle().Foreground(Muted)

	ActivityInvestment = lipgloss.NewStyle().Foreground(Success).Bold(true)
	ActivityRefund = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	ActivityGovernance = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	ActivityActor = lipgloss.NewStyle().Foreground(Secondary)
	ActivityAmount = lipgloss.NewStyle().Foreground(Success)
	Timestamp = lipgloss.NewStyle().Foreground(Dim)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusSegment = lipgloss.NewStyle().Foreground(Secondary)
	StatusLoading = lipgloss.NewStyle().Foreground(Warning)

	Hint = lipgloss.NewStyle().Foreground(Dim)

	// -------------------------------------------------------------------------
	// Modal / Overlay
	// -------------------------------------------------------------------------

	ModalBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(ModalBgColor)
	ModalTitle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// -------------------------------------------------------------------------
	// Scrollbar
	// -------------------------------------------------------------------------

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)
}

// ProposalStatus picks the badge style for a proposal status string.
func ProposalStatus(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case "active":
		return StatusActive
	case "funded":
		return StatusFunded
	case "cancelled":
		return StatusCancelled
	case "expired":
		return StatusExpired
	default:
		return Faint
	}
}

// FundingBarRender renders a funding progress bar like: ██████░░░░
func FundingBarRender(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	var c color.Color
	switch {
	case ratio >= 1.0:
		c = Success
	case ratio >= 0.75:
		c = Secondary
	default:
		c = Primary
	}

	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Dim).Render(strings.Repeat("░", empty))
}
