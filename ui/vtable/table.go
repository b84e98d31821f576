// Package vtable renders large tables by delegating body virtualization to
// ui/vlist. It owns the fixed header row, column geometry and the sort
// toggle; it never sorts data itself — sorting cost and semantics (stability,
// null handling, collation) belong to the data owner, which receives a
// SortMsg and supplies already-sorted items.
package vtable

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/common"
	"github.com/cf1-platform/cf1-tui/ui/vlist"
)

// headerHeight is the header row plus its separator line.
const headerHeight = 2

// columnGap is the blank columns between adjacent cells.
const columnGap = 2

// ---------------------------------------------------------------------------
// Columns
// ---------------------------------------------------------------------------

// Column describes one table column. Width is a fixed cell count; when zero,
// Pct allocates a percentage of the table width instead. Exactly one of the
// two must be positive. Render produces the cell content for an item at its
// absolute collection index.
type Column struct {
	Key      string
	Title    string
	Width    int
	Pct      int
	Sortable bool
	Render   func(item vlist.Item, index int) string
}

// SortDirection is the sort order emitted with SortMsg.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState identifies the active sort column, if any.
type SortState struct {
	Column    string
	Direction SortDirection
}

// Toggle returns the sort state after clicking key: a new column always
// starts ascending; the current column flips asc<->desc.
func (s SortState) Toggle(key string) SortState {
	if s.Column != key {
		return SortState{Column: key, Direction: SortAsc}
	}
	if s.Direction == SortAsc {
		return SortState{Column: key, Direction: SortDesc}
	}
	return SortState{Column: key, Direction: SortAsc}
}

// SortMsg asks the data owner to re-supply items in the given order.
type SortMsg struct {
	Column    string
	Direction SortDirection
}

// RowClickMsg is emitted when a body row is clicked and no OnRowClick
// handler is set. Index is the item's absolute collection index.
type RowClickMsg struct {
	Item  vlist.Item
	Index int
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithSize sets the table dimensions; the body gets the height minus the
// header.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// WithRowHeight overrides the default one-line row height policy.
func WithRowHeight(p vlist.HeightPolicy) Option {
	return func(m *Model) { m.rowHeight = p }
}

// WithSort sets the initial sort state (for callers that persist it).
func WithSort(column string, direction SortDirection) Option {
	return func(m *Model) { m.sort = SortState{Column: column, Direction: direction} }
}

// WithOnRowClick registers a body row click handler.
func WithOnRowClick(fn func(item vlist.Item, index int) tea.Cmd) Option {
	return func(m *Model) { m.onRowClick = fn }
}

// WithOnSort registers a sort handler. Without it, toggles emit SortMsg.
func WithOnSort(fn func(column string, direction SortDirection) tea.Cmd) Option {
	return func(m *Model) { m.onSort = fn }
}

// WithOverscan forwards the overscan setting to the body list.
func WithOverscan(n int) Option {
	return func(m *Model) { m.overscan = n }
}

// WithMovementThreshold forwards the scroll threshold to the body list.
func WithMovementThreshold(n int) Option {
	return func(m *Model) { m.threshold = n }
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is a virtualized table: a non-scrolling header over a vlist body.
type Model struct {
	columns []Column
	list    vlist.Model
	sort    SortState

	width  int
	height int

	rowHeight vlist.HeightPolicy
	overscan  int
	threshold int

	onRowClick func(vlist.Item, int) tea.Cmd
	onSort     func(string, SortDirection) tea.Cmd
}

// New validates the column definitions and constructs a table. Column keys
// must be unique and every column needs a positive Width or Pct.
func New(columns []Column, opts ...Option) (Model, error) {
	if len(columns) == 0 {
		return Model{}, errors.New("vtable: no columns")
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Key == "" {
			return Model{}, errors.New("vtable: column with empty key")
		}
		if seen[c.Key] {
			return Model{}, fmt.Errorf("vtable: duplicate column key %q", c.Key)
		}
		seen[c.Key] = true
		if c.Width <= 0 && c.Pct <= 0 {
			return Model{}, fmt.Errorf("vtable: column %q has no positive width", c.Key)
		}
		if c.Width < 0 || c.Pct < 0 {
			return Model{}, fmt.Errorf("vtable: column %q has negative width", c.Key)
		}
	}

	m := Model{
		columns:   columns,
		rowHeight: vlist.FixedHeight(1),
		overscan:  vlist.DefaultOverscan,
		threshold: vlist.DefaultMovementThreshold,
	}
	for _, o := range opts {
		o(&m)
	}

	m.list = vlist.New(
		vlist.WithSize(m.bodyWidth(), m.bodyHeight()),
		vlist.WithHeightPolicy(m.rowHeight),
		vlist.WithOverscan(m.overscan),
		vlist.WithMovementThreshold(m.threshold),
		vlist.WithRenderItem(m.renderRow),
	)
	return m, nil
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight
	if h < 0 {
		h = 0
	}
	return h
}

// bodyWidth reserves the rightmost column for the scrollbar so rows do not
// reflow when the content starts overflowing.
func (m Model) bodyWidth() int {
	w := m.width - 1
	if w < 0 {
		w = 0
	}
	return w
}

// SetItems replaces the table's row collection. The slice must already be in
// display order; the table does not sort.
func (m *Model) SetItems(items []vlist.Item) { m.list.SetItems(items) }

// SetSize resizes the table; the header keeps its fixed height and the body
// absorbs the rest.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(m.bodyWidth(), m.bodyHeight())
}

// Sort returns the current sort state.
func (m *Model) Sort() SortState { return m.sort }

// SetSort overrides the sort state without emitting SortMsg, for callers
// that own sorting externally.
func (m *Model) SetSort(column string, direction SortDirection) {
	m.sort = SortState{Column: column, Direction: direction}
}

// CycleSort applies the toggle law to the given column and notifies the data
// owner. Non-sortable and unknown columns are ignored.
func (m *Model) CycleSort(key string) tea.Cmd {
	col := m.column(key)
	if col == nil || !col.Sortable {
		return nil
	}
	m.sort = m.sort.Toggle(key)
	if m.onSort != nil {
		return m.onSort(m.sort.Column, m.sort.Direction)
	}
	s := m.sort
	return func() tea.Msg { return SortMsg{Column: s.Column, Direction: s.Direction} }
}

// List exposes the body list for scroll control (page keys, bottom checks).
func (m *Model) List() *vlist.Model { return &m.list }

// Close tears down the body list's scroll subscriptions.
func (m *Model) Close() { m.list.Close() }

func (m *Model) column(key string) *Column {
	for i := range m.columns {
		if m.columns[i].Key == key {
			return &m.columns[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Column geometry
// ---------------------------------------------------------------------------

// columnWidths resolves each column's cell width for the given body width:
// fixed widths as given, percentage widths against the width left after
// fixed columns and gaps.
func (m Model) columnWidths(bodyWidth int) []int {
	gaps := columnGap * (len(m.columns) - 1)
	avail := bodyWidth - gaps
	if avail < 0 {
		avail = 0
	}
	fixed := 0
	for _, c := range m.columns {
		fixed += c.Width
	}
	flex := avail - fixed
	if flex < 0 {
		flex = 0
	}

	widths := make([]int, len(m.columns))
	for i, c := range m.columns {
		if c.Width > 0 {
			widths[i] = c.Width
			continue
		}
		w := flex * c.Pct / 100
		if w < 1 {
			w = 1
		}
		widths[i] = w
	}
	return widths
}

// columnAtX resolves a header-row x coordinate to a column index, or -1 when
// the coordinate falls in a gap or past the last column.
func (m Model) columnAtX(x int) int {
	if x < 0 {
		return -1
	}
	pos := 0
	for i, w := range m.columnWidths(m.bodyWidth()) {
		if x < pos+w {
			return i
		}
		pos += w + columnGap
		if x < pos { // gap
			return -1
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update routes mouse input: header clicks toggle sorting, body events go to
// the list with coordinates shifted past the header. Coordinates must
// already be relative to the table's top-left corner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Y < headerHeight {
			if msg.Y != 0 {
				return m, nil // separator line
			}
			if i := m.columnAtX(msg.X + m.list.ScrollState().Left); i >= 0 {
				return m, m.CycleSort(m.columns[i].Key)
			}
			return m, nil
		}
		shifted := msg
		shifted.Y -= headerHeight
		return m.updateBody(shifted)
	case tea.MouseWheelMsg:
		return m.updateBody(msg)
	case vlist.ScrollSettledMsg:
		return m.updateBody(msg)
	case vlist.ItemClickMsg:
		if m.onRowClick != nil {
			return m, m.onRowClick(msg.Item, msg.Index)
		}
		return m, func() tea.Msg { return RowClickMsg(msg) }
	}
	return m, nil
}

func (m Model) updateBody(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the header, separator and virtualized body, with a
// proportional scrollbar in the rightmost column when the content overflows.
// A horizontal scroll offset shifts header and body in lockstep so columns
// stay aligned.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	left := m.list.ScrollState().Left
	bw := m.bodyWidth()
	header := m.headerView()
	sep := strings.Repeat("─", m.width)
	body := m.list.View()
	if left > 0 {
		header = ansi.Cut(header, left, left+bw)
		lines := strings.Split(body, "\n")
		for i, ln := range lines {
			lines[i] = ansi.Cut(ln, left, left+bw)
		}
		body = strings.Join(lines, "\n")
	}

	bar := common.Scrollbar(m.bodyHeight(), m.list.TotalHeight(), m.list.ScrollState().Top)
	if bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}
	return header + "\n" + style.Faint.Render(sep) + "\n" + body
}

// headerView renders the column titles with sort indicators at their
// resolved widths.
func (m Model) headerView() string {
	widths := m.columnWidths(m.bodyWidth())
	cells := make([]string, len(m.columns))
	gap := strings.Repeat(" ", columnGap)
	for i, c := range m.columns {
		title := c.Title
		if m.sort.Column == c.Key {
			if m.sort.Direction == SortAsc {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		cell := lipgloss.NewStyle().Width(widths[i]).MaxHeight(1).Render(ansi.Truncate(title, widths[i], "…"))
		if m.sort.Column == c.Key {
			cells[i] = style.TableSortActive.Render(cell)
		} else {
			cells[i] = style.TableHeader.Render(cell)
		}
	}
	return strings.Join(cells, gap)
}

// renderRow builds one body row: cells rendered in column order, truncated
// and padded to widths resolved from the width the body list passes in.
// The callback is registered once at construction on a Model snapshot, so
// it must never read geometry off the receiver.
func (m Model) renderRow(item vlist.Item, index, width int) string {
	widths := m.columnWidths(width)
	gap := strings.Repeat(" ", columnGap)
	cells := make([]string, len(m.columns))
	for i, c := range m.columns {
		content := ""
		if c.Render != nil {
			content = c.Render(item, index)
		}
		cells[i] = lipgloss.NewStyle().Width(widths[i]).MaxHeight(1).Render(ansi.Truncate(content, widths[i], "…"))
	}
	return strings.Join(cells, gap)
}
