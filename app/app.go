package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/collection"
	"github.com/cf1-platform/cf1-tui/config"
	"github.com/cf1-platform/cf1-tui/msg"
	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/anim"
	"github.com/cf1-platform/cf1-tui/ui/common"
	"github.com/cf1-platform/cf1-tui/ui/detail"
	"github.com/cf1-platform/cf1-tui/ui/feed"
	"github.com/cf1-platform/cf1-tui/ui/header"
	"github.com/cf1-platform/cf1-tui/ui/proposals"
	"github.com/cf1-platform/cf1-tui/ui/status"
	"github.com/cf1-platform/cf1-tui/ui/toast"
	"github.com/cf1-platform/cf1-tui/ui/vlist"
	"github.com/cf1-platform/cf1-tui/ui/vtable"
)

// ProfileDir is set by main to the user's profile directory path.
var ProfileDir string

func profileDirPath() string { return ProfileDir }

const (
	healthRetryDelay = 5 * time.Second
	healthPollDelay  = 30 * time.Second
	requestTimeout   = 15 * time.Second

	// Rows of unrendered content left before the proposals table requests
	// the next page.
	tableLoadSlack = 10
)

// -- Internal messages ----------------------------------------------------

type retryHealth struct{}

// Page results are wrapped per store so Update can route them.
type proposalsPageMsg collection.PageResult
type activityPageMsg collection.PageResult

// -- Model ----------------------------------------------------------------

// Model is the root application model. It owns the two paginated stores
// and routes every message to the header, the active tab and the overlays.
type Model struct {
	header    header.Model
	proposals proposals.Model
	feed      feed.Model
	detail    detail.Model
	status    status.Model
	toasts    toast.Model
	spinner   anim.Model

	proposalStore *collection.Store
	activityStore *collection.Store

	state  State
	layout Layout
	keys   KeyMap

	client   *client.Client
	config   config.Config
	pageSize int

	width   int
	height  int
	lastErr string // shown on the connecting screen
}

// New constructs the root Model. It applies the persisted theme before any
// component renders.
func New(c *client.Client) Model {
	cfg := config.Load(profileDirPath())
	if cfg.Theme != "" {
		style.SetTheme(cfg.Theme)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	spinner := anim.New("connecting to " + c.BaseURL)
	spinner.Start()

	return Model{
		header:        header.New(),
		spinner:       spinner,
		proposals:     proposals.New(),
		feed:          feed.New(),
		detail:        detail.New(),
		status:        status.New(),
		toasts:        toast.New(),
		proposalStore: collection.NewStore(),
		activityStore: collection.NewStore(),
		state:         StateConnecting,
		client:        c,
		config:        cfg,
		pageSize:      pageSize,
		keys:          DefaultKeyMap(),
		width:         80,
		height:        24,
	}
}

// -- Init -----------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.spinner.Tick(), func() tea.Msg { return tea.RequestWindowSize() })
}

// -- Update ---------------------------------------------------------------

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout = ComputeLayout(v.Width, v.Height)
		m.header.SetWidth(v.Width)
		m.proposals.SetSize(m.layout.ContentWidth, m.layout.ContentHeight)
		m.feed.SetSize(m.layout.ContentWidth, m.layout.ContentHeight)
		m.detail.SetSize(m.layout.ContentWidth, m.layout.ContentHeight)
		m.syncStatus()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(v)

	case tea.MouseClickMsg:
		if m.state == StateConnecting {
			return m, nil
		}
		if m.detail.Visible() {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(v)
			return m, cmd
		}
		// Content starts below the header; shift into tab coordinates.
		shifted := v
		shifted.Y -= m.layout.HeaderHeight
		if shifted.Y < 0 {
			return m, nil
		}
		return m.updateActive(shifted)

	case tea.MouseWheelMsg:
		if m.state == StateConnecting {
			return m, nil
		}
		if m.detail.Visible() {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(v)
			return m, cmd
		}
		return m.updateActive(v)

	// -- Health / connection --

	case msg.HealthResult:
		return m.handleHealth(v)

	case retryHealth:
		return m, m.checkHealth()

	// -- Page results --

	case proposalsPageMsg:
		return m.handleProposalsPage(collection.PageResult(v))

	case activityPageMsg:
		return m.handleActivityPage(collection.PageResult(v))

	// -- Table / feed events --

	case vtable.SortMsg:
		return m.handleSort(v)

	case vtable.RowClickMsg:
		return m.openDetail(v.Item.ID)

	case feed.NeedMoreMsg:
		return m, m.loadActivity()

	// -- Detail overlay --

	case msg.OpenDetailMsg:
		return m.openDetail(v.ProposalID)

	case msg.CloseDetailMsg:
		m.detail.Close()
		m.state = StateBrowsing
		return m, nil

	case msg.ProposalDetailResult:
		m.detail.SetProposal(v)
		if v.Err != nil {
			m.toasts.Error(fmt.Sprintf("proposal fetch failed: %v", v.Err))
			return m, m.tickCmd()
		}
		return m, nil

	case msg.SwitchTabMsg:
		return m.switchTab(v.Tab)

	// -- Housekeeping --

	case anim.TickMsg:
		if m.state != StateConnecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd

	case msg.TickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, m.tickCmd()
		}
		return m, nil
	}

	// Everything else (scroll settle ticks and friends) goes to whichever
	// component is in front.
	if m.detail.Visible() {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(rawMsg)
		return m, cmd
	}
	return m.updateActive(rawMsg)
}

// updateActive forwards a message to the active tab's component and keeps
// the status bar and pagination in step with whatever scrolling resulted.
func (m Model) updateActive(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.header.ActiveTab() == header.Tabs[0] {
		m.proposals, cmd = m.proposals.Update(rawMsg)
		if more := m.maybeLoadProposals(); more != nil {
			cmd = tea.Batch(cmd, more)
		}
	} else {
		m.feed, cmd = m.feed.Update(rawMsg)
	}
	m.syncStatus()
	return m, cmd
}

// -- Key handling ----------------------------------------------------------

func (m Model) handleKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, whatever is on screen.
	if key.Matches[tea.KeyPressMsg](k, m.keys.Cancel) {
		return m.quit()
	}

	if m.state == StateConnecting {
		if key.Matches[tea.KeyPressMsg](k, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	// The overlay owns the keyboard while it is open; it emits
	// CloseDetailMsg for esc and q.
	if m.detail.Visible() {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(k)
		return m, cmd
	}

	switch {
	case key.Matches[tea.KeyPressMsg](k, m.keys.Quit):
		return m.quit()

	case key.Matches[tea.KeyPressMsg](k, m.keys.SwitchTab):
		return m.switchTab(m.nextTab())

	case key.Matches[tea.KeyPressMsg](k, m.keys.Refresh):
		return m.refreshActive()

	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollUp):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.ScrollBy(-1) })
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollDown):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.ScrollBy(1) })
	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageUp):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.HalfPageUp() })
	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageDown):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.HalfPageDown() })
	case key.Matches[tea.KeyPressMsg](k, m.keys.PageUp):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.PageUp() })
	case key.Matches[tea.KeyPressMsg](k, m.keys.PageDown):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.PageDown() })
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollTop):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.ScrollToTop() })
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollBottom):
		return m.scrollActive(func(l *vlist.Model) tea.Cmd { return l.ScrollToBottom() })
	}

	return m, nil
}

// scrollActive applies a scroll operation to the active tab's list.
func (m Model) scrollActive(op func(*vlist.Model) tea.Cmd) (tea.Model, tea.Cmd) {
	cmd := op(m.activeList())
	if m.header.ActiveTab() == header.Tabs[0] {
		if more := m.maybeLoadProposals(); more != nil {
			cmd = tea.Batch(cmd, more)
		}
	} else if m.feedNearEnd() {
		if more := m.loadActivity(); more != nil {
			cmd = tea.Batch(cmd, more)
		}
	}
	m.syncStatus()
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.proposalStore.Close()
	m.activityStore.Close()
	m.proposals.Close()
	m.feed.Close()
	return m, tea.Quit
}

// -- Tabs -----------------------------------------------------------------

func (m Model) nextTab() string {
	for i, t := range header.Tabs {
		if t == m.header.ActiveTab() {
			return header.Tabs[(i+1)%len(header.Tabs)]
		}
	}
	return header.Tabs[0]
}

func (m Model) switchTab(tab string) (tea.Model, tea.Cmd) {
	m.header.SetActiveTab(tab)

	// First visit to a tab kicks off its initial page.
	var cmd tea.Cmd
	if tab == header.Tabs[1] && m.activityStore.Len() == 0 && m.activityStore.HasMore() {
		cmd = m.loadActivity()
	}
	m.syncStatus()
	return m, cmd
}

func (m Model) refreshActive() (tea.Model, tea.Cmd) {
	if m.header.ActiveTab() == header.Tabs[0] {
		m.proposalStore.Reset(nil)
		m.proposals.SetProposals(nil)
		m.syncStatus()
		return m, tea.Batch(m.loadProposals(), m.proposals.List().ScrollToTop())
	}
	m.activityStore.Reset(nil)
	m.feed.SetEntries(nil)
	m.syncStatus()
	return m, tea.Batch(m.loadActivity(), m.feed.List().ScrollToTop())
}

// -- Health ---------------------------------------------------------------

func (m Model) handleHealth(h msg.HealthResult) (Model, tea.Cmd) {
	if h.Err != nil {
		m.lastErr = h.Err.Error()
		if m.state != StateConnecting {
			m.status.SetError("backend unreachable")
			m.toasts.Error(fmt.Sprintf("backend unreachable: %v", h.Err))
			return m, tea.Batch(m.tickCmd(), m.retryHealthCmd())
		}
		return m, m.retryHealthCmd()
	}

	m.lastErr = ""
	m.header.SetHealth(h)
	m.status.SetNetwork(h.Network)
	m.status.SetError("")

	if m.state == StateConnecting {
		m.spinner.Stop()
		m.state = StateBrowsing
		return m, tea.Batch(m.loadProposals(), m.pollHealthCmd())
	}
	return m, m.pollHealthCmd()
}

func (m Model) retryHealthCmd() tea.Cmd {
	return tea.Tick(healthRetryDelay, func(time.Time) tea.Msg { return retryHealth{} })
}

// pollHealthCmd keeps the header's block height fresh and notices a backend
// that goes away after startup.
func (m Model) pollHealthCmd() tea.Cmd {
	return tea.Tick(healthPollDelay, func(time.Time) tea.Msg { return retryHealth{} })
}

func (m Model) checkHealth() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		h, err := c.Health(ctx)
		if err != nil {
			return msg.HealthResult{Err: err}
		}
		return msg.HealthResult{
			Status:        h.Status,
			Version:       h.Version,
			UptimeSeconds: h.UptimeSeconds,
			Network:       h.Network,
			BlockHeight:   h.BlockHeight,
		}
	}
}

// -- Pagination -----------------------------------------------------------

// proposalsFetch builds a page fetcher bound to the current sort order.
func (m Model) proposalsFetch() collection.PageFunc {
	c := m.client
	size := m.pageSize
	sort := m.proposals.Sort()
	return func(ctx context.Context, page int) ([]vlist.Item, int, error) {
		resp, err := c.ListProposals(ctx, page, size, sort.Column, string(sort.Direction))
		if err != nil {
			return nil, 0, err
		}
		items := make([]vlist.Item, len(resp.Proposals))
		for i, p := range resp.Proposals {
			items[i] = vlist.Item{ID: p.ID, Data: p}
		}
		return items, resp.Total, nil
	}
}

func (m Model) activityFetch() collection.PageFunc {
	c := m.client
	size := m.pageSize
	return func(ctx context.Context, page int) ([]vlist.Item, int, error) {
		resp, err := c.ListActivity(ctx, page, size)
		if err != nil {
			return nil, 0, err
		}
		items := make([]vlist.Item, len(resp.Entries))
		for i, e := range resp.Entries {
			items[i] = vlist.Item{ID: e.ID, Data: e}
		}
		return items, resp.Total, nil
	}
}

func (m *Model) loadProposals() tea.Cmd {
	cmd := m.proposalStore.LoadMore(m.proposalsFetch())
	if cmd == nil {
		return nil
	}
	m.status.SetLoading(true)
	return func() tea.Msg { return proposalsPageMsg(cmd().(collection.PageResult)) }
}

func (m *Model) loadActivity() tea.Cmd {
	cmd := m.activityStore.LoadMore(m.activityFetch())
	if cmd == nil {
		return nil
	}
	m.status.SetLoading(true)
	return func() tea.Msg { return activityPageMsg(cmd().(collection.PageResult)) }
}

// maybeLoadProposals requests the next page when the table is scrolled
// near the end of the loaded rows.
func (m *Model) maybeLoadProposals() tea.Cmd {
	if !m.proposalStore.HasMore() || m.proposalStore.Loading() {
		return nil
	}
	l := m.proposals.List()
	if l.TotalHeight()-(l.ScrollState().Top+l.Height()) > tableLoadSlack {
		return nil
	}
	return m.loadProposals()
}

func (m Model) feedNearEnd() bool {
	if !m.activityStore.HasMore() || m.activityStore.Loading() {
		return false
	}
	l := m.feed.List()
	return l.TotalHeight()-(l.ScrollState().Top+l.Height()) <= tableLoadSlack
}

func (m Model) handleProposalsPage(res collection.PageResult) (Model, tea.Cmd) {
	n, err := m.proposalStore.Apply(res)
	m.syncStatus()
	if err != nil {
		m.toasts.Error(fmt.Sprintf("proposals page %d failed: %v", res.Page, err))
		return m, m.tickCmd()
	}
	if n > 0 {
		m.proposals.SetProposals(proposalsOf(m.proposalStore.Items()))
		m.syncStatus()
	}
	return m, nil
}

func (m Model) handleActivityPage(res collection.PageResult) (Model, tea.Cmd) {
	n, err := m.activityStore.Apply(res)
	m.syncStatus()
	if err != nil {
		m.toasts.Error(fmt.Sprintf("activity page %d failed: %v", res.Page, err))
		return m, m.tickCmd()
	}
	if n > 0 {
		m.feed.SetEntries(entriesOf(m.activityStore.Items()))
		m.syncStatus()
	}
	return m, nil
}

// -- Sorting --------------------------------------------------------------

// handleSort restarts pagination in the new order. The table has already
// updated its own sort state; the backend owns the actual ordering.
func (m Model) handleSort(vtable.SortMsg) (tea.Model, tea.Cmd) {
	m.proposalStore.Reset(nil)
	m.proposals.SetProposals(nil)
	m.syncStatus()
	return m, tea.Batch(m.loadProposals(), m.proposals.List().ScrollToTop())
}

// -- Detail overlay ---------------------------------------------------------

func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	m.detail.Open()
	m.state = StateDetail
	return m, m.fetchDetail(id)
}

func (m Model) fetchDetail(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := c.GetProposal(ctx, id)
		if err != nil {
			return msg.ProposalDetailResult{Err: err}
		}
		return msg.ProposalDetailResult{Proposal: p}
	}
}

// -- Status bar -------------------------------------------------------------

func (m *Model) activeList() *vlist.Model {
	if m.header.ActiveTab() == header.Tabs[0] {
		return m.proposals.List()
	}
	return m.feed.List()
}

func (m *Model) activeStore() *collection.Store {
	if m.header.ActiveTab() == header.Tabs[0] {
		return m.proposalStore
	}
	return m.activityStore
}

func (m *Model) syncStatus() {
	l := m.activeList()
	r := l.VisibleRange()

	pct := 0
	if span := l.TotalHeight() - l.Height(); span > 0 {
		pct = l.ScrollState().Top * 100 / span
		if pct > 100 {
			pct = 100
		}
	}
	m.status.SetWindow(l.Len(), r.Start, r.End, pct)
	m.status.SetServerTotal(m.activeStore().Total())

	if m.header.ActiveTab() == header.Tabs[0] {
		s := m.proposals.Sort()
		m.status.SetSort(s.Column, string(s.Direction))
	} else {
		m.status.SetSort("", "")
	}
	m.status.SetLoading(m.activeStore().Loading())
}

// -- Commands ---------------------------------------------------------------

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

// -- View -------------------------------------------------------------------

func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	return v
}

// renderView composes the full terminal frame as a string.
func (m Model) renderView() string {
	if m.state == StateConnecting {
		return m.renderConnecting()
	}

	var sections []string
	sections = append(sections, m.header.View())

	if m.detail.Visible() {
		sections = append(sections, m.detail.View())
	} else if m.header.ActiveTab() == header.Tabs[0] {
		sections = append(sections, m.proposals.View())
	} else {
		sections = append(sections, m.feed.View())
	}

	sections = append(sections, m.status.View())

	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View(m.width))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderConnecting() string {
	title := style.ApplyBoldForegroundGrad("CF1 Launchpad")
	body := title + "\n\n" + m.spinner.View()
	if m.lastErr != "" {
		body += "\n" + style.ErrorText.Render(m.lastErr) +
			"\n" + style.Faint.Render("retrying every "+healthRetryDelay.String()+"  ") +
			common.KeyHelp(m.keys.Quit)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// -- Item conversions ---------------------------------------------------------

func proposalsOf(items []vlist.Item) []client.Proposal {
	out := make([]client.Proposal, 0, len(items))
	for _, it := range items {
		if p, ok := it.Data.(client.Proposal); ok {
			out = append(out, p)
		}
	}
	return out
}

func entriesOf(items []vlist.Item) []client.ActivityEntry {
	out := make([]client.ActivityEntry, 0, len(items))
	for _, it := range items {
		if e, ok := it.Data.(client.ActivityEntry); ok {
			out = append(out, e)
		}
	}
	return out
}
