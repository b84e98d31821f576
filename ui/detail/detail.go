// Package detail renders the proposal detail overlay. The body is
// composed as markdown and rendered through glamour, then scrolled
// line-wise inside a centered modal.
package detail

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/msg"
	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/common"
)

const (
	maxModalWidth  = 80
	modalHeightPct = 80 // percent of terminal height
)

// Model is the detail overlay state.
type Model struct {
	proposal *client.Proposal
	lines    []string
	offset   int
	visible  bool
	loading  bool
	errText  string
	width    int
	height   int
}

// New returns a hidden detail overlay.
func New() Model {
	return Model{}
}

// SetSize stores the terminal dimensions and re-renders the body.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.proposal != nil {
		m.renderBody()
	}
}

// Open shows the overlay in its loading state until SetProposal arrives.
func (m *Model) Open() {
	m.visible = true
	m.loading = true
	m.errText = ""
	m.proposal = nil
	m.lines = nil
	m.offset = 0
}

// Close hides the overlay and drops its content.
func (m *Model) Close() {
	m.visible = false
	m.proposal = nil
	m.lines = nil
	m.offset = 0
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.visible }

// SetProposal fills the overlay from a fetch result.
func (m *Model) SetProposal(res msg.ProposalDetailResult) {
	if !m.visible {
		return
	}
	m.loading = false
	if res.Err != nil {
		m.errText = res.Err.Error()
		return
	}
	m.proposal = res.Proposal
	m.offset = 0
	m.renderBody()
}

// Update handles scrolling and dismissal while the overlay is open.
func (m Model) Update(tmsg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch tmsg := tmsg.(type) {
	case tea.KeyPressMsg:
		switch tmsg.Code {
		case tea.KeyEscape, 'q':
			return m, func() tea.Msg { return msg.CloseDetailMsg{} }
		case tea.KeyUp, 'k':
			m.scrollBy(-1)
		case tea.KeyDown, 'j':
			m.scrollBy(1)
		case tea.KeyPgUp:
			m.scrollBy(-m.bodyHeight())
		case tea.KeyPgDown, tea.KeySpace:
			m.scrollBy(m.bodyHeight())
		case tea.KeyHome:
			m.offset = 0
		case tea.KeyEnd:
			m.scrollBy(len(m.lines))
		}
	case tea.MouseWheelMsg:
		switch tmsg.Button {
		case tea.MouseWheelUp:
			m.scrollBy(-3)
		case tea.MouseWheelDown:
			m.scrollBy(3)
		}
	}
	return m, nil
}

// View renders the modal centered in the terminal, or an empty string
// while hidden.
func (m Model) View() string {
	if !m.visible || m.width <= 0 || m.height <= 0 {
		return ""
	}

	mw := m.modalWidth()
	inner := mw - 4 // border + padding
	bh := m.bodyHeight()

	var body string
	switch {
	case m.errText != "":
		body = style.ErrorText.Render(common.WrapText(m.errText, inner))
	case m.loading:
		body = style.Faint.Render("loading proposal…")
	default:
		end := m.offset + bh
		if end > len(m.lines) {
			end = len(m.lines)
		}
		visible := m.lines[m.offset:end]
		if len(m.lines) > bh {
			bar := common.Scrollbar(bh, len(m.lines), m.offset)
			body = lipgloss.JoinHorizontal(lipgloss.Top,
				lipgloss.NewStyle().Width(inner-1).Height(bh).Render(strings.Join(visible, "\n")),
				bar)
		} else {
			body = strings.Join(visible, "\n")
		}
	}

	title := style.ModalTitle.Render(m.titleText())
	hint := style.Hint.Render("esc close · ↑/↓ scroll")
	content := title + "\n" + common.Divider(inner) + "\n" + body + "\n" + hint

	box := style.ModalBorder.Padding(0, 1).Width(mw - 2).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) titleText() string {
	if m.proposal != nil {
		return m.proposal.Name
	}
	return "Proposal"
}

func (m Model) modalWidth() int {
	return common.CappedWidth(m.width-6, maxModalWidth)
}

func (m Model) bodyHeight() int {
	h := m.height * modalHeightPct / 100
	// title + divider + hint + border rows
	h -= 5
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) scrollBy(delta int) {
	m.offset += delta
	maxOff := len(m.lines) - m.bodyHeight()
	if maxOff < 0 {
		maxOff = 0
	}
	if m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// renderBody builds the markdown document for the proposal and renders
// it with glamour at the modal's inner width.
func (m *Model) renderBody() {
	p := m.proposal
	if p == nil {
		return
	}
	inner := m.modalWidth() - 5

	var md strings.Builder
	fmt.Fprintf(&md, "**%s** · %s · %s\n\n", p.AssetType, p.Category, p.Location)
	fmt.Fprintf(&md, "Creator: `%s`\n\n", common.ShortAddr(p.Creator))
	md.WriteString("## Financial Terms\n\n")
	fmt.Fprintf(&md, "| | |\n|---|---|\n")
	fmt.Fprintf(&md, "| Target | %s |\n", common.FormatAmount(p.TargetAmount))
	fmt.Fprintf(&md, "| Raised | %s |\n", common.FormatAmount(p.RaisedAmount))
	fmt.Fprintf(&md, "| Token price | %s |\n", common.FormatAmount(p.TokenPrice))
	fmt.Fprintf(&md, "| Total shares | %d |\n", p.TotalShares)
	fmt.Fprintf(&md, "| Expected APY | %s |\n", common.FormatAPY(p.ExpectedAPY))
	fmt.Fprintf(&md, "| Investors | %d |\n", p.InvestorCount)
	if p.FundingDeadline != "" {
		fmt.Fprintf(&md, "| Deadline | %s |\n", p.FundingDeadline)
	}
	md.WriteString("\n")
	if desc := p.FullDescription; desc != "" {
		md.WriteString("## Description\n\n" + desc + "\n")
	} else if p.Description != "" {
		md.WriteString("## Description\n\n" + p.Description + "\n")
	}

	rendered := renderMarkdown(md.String(), inner)

	// Funding bar above the rendered body, outside markdown so the
	// block characters keep their colors.
	ratio := common.FundingRatio(p.RaisedAmount, p.TargetAmount)
	barLine := style.FundingBarRender(ratio, inner-8) + " " +
		style.Faint.Render(fmt.Sprintf("%3.0f%%", ratio*100))
	statusLine := style.ProposalStatus(p.Status).Render(p.Status)

	m.lines = strings.Split(statusLine+"\n"+barLine+"\n"+rendered, "\n")
}

// renderMarkdown renders markdown text using glamour, falling back to plain text on error.
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
