package vlist

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// RenderItemFunc produces the rendered lines for one item at the given
// width. index is the item's absolute position in the collection, never the
// slice-relative position. The result must be stable for the same
// (item, width) pair within one collection generation.
type RenderItemFunc func(item Item, index, width int) string

// KeyFunc resolves the render identity of an item. Keys must be stable for
// a given logical item across scroll-driven re-renders.
type KeyFunc func(item Item, index int) string

// ItemClickMsg is emitted when a materialized item is clicked. Index is the
// item's absolute collection index.
type ItemClickMsg struct {
	Item  Item
	Index int
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithSize sets the initial viewport dimensions.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// WithHeightPolicy sets the item height policy.
func WithHeightPolicy(p HeightPolicy) Option {
	return func(m *Model) { m.policy = p }
}

// WithRenderItem sets the item renderer.
func WithRenderItem(fn RenderItemFunc) Option {
	return func(m *Model) { m.renderItem = fn }
}

// WithItemKey overrides the render-identity resolution. Without it the key
// is the item's ID, falling back to the positional "item-<index>" when the
// ID is empty.
func WithItemKey(fn KeyFunc) Option {
	return func(m *Model) { m.getItemKey = fn }
}

// WithOverscan sets how many extra items are materialized beyond each
// viewport edge.
func WithOverscan(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.overscan = n
		}
	}
}

// WithEstimatedItemSize sets the assumed item height used for the overscan
// scan margin.
func WithEstimatedItemSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.estimatedItemSize = n
		}
	}
}

// WithMovementThreshold sets the scroll delta below which range
// recomputation is coalesced.
func WithMovementThreshold(n int) Option {
	return func(m *Model) { m.ctrl.SetThreshold(n) }
}

// WithOnScroll registers a callback fired on every scroll offset change,
// independent of the movement threshold gate.
func WithOnScroll(fn func(ScrollState) tea.Cmd) Option {
	return func(m *Model) { m.onScroll = fn }
}

// WithOnItemClick registers a click handler. It receives the clicked item
// and its absolute index. When unset, clicks emit ItemClickMsg instead.
func WithOnItemClick(fn func(item Item, index int) tea.Cmd) Option {
	return func(m *Model) { m.onItemClick = fn }
}

// WithOnScrollSettled registers deferred work to run once scrolling has been
// quiet for ScrollSettleDelay.
func WithOnScrollSettled(fn func() tea.Cmd) Option {
	return func(m *Model) { m.onSettled = fn }
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type cachedRender struct {
	lines []string
	width int
}

// Model is a virtualized list. It composes the height resolver, range
// calculator and scroll controller, and renders only the materialized slice
// of items on each View. The zero value is not usable; construct with New.
type Model struct {
	items  []Item
	policy HeightPolicy

	renderItem RenderItemFunc
	getItemKey KeyFunc

	width  int
	height int

	overscan          int
	estimatedItemSize int

	// Geometry, memoized against the item collection. heights is resolved
	// once per SetItems/SetHeightPolicy/resize; index is only built for
	// collections of prefixIndexThreshold items or more.
	heights     []int
	index       *PrefixIndex
	totalHeight int

	ctrl Controller
	rng  Range

	// cache stores rendered lines keyed by render identity.
	cache map[string]cachedRender

	// Diagnostics for caller data-integrity bugs. Not cleared silently:
	// duplicate keys within one materialized range and invalid (<= 0)
	// resolved heights are caller errors that tests must be able to observe.
	dupKeys        []string
	invalidHeights int

	onScroll    func(ScrollState) tea.Cmd
	onItemClick func(Item, int) tea.Cmd
	onSettled   func() tea.Cmd

	closed bool
}

// New constructs a Model with the supplied options.
func New(opts ...Option) Model {
	m := Model{
		policy:            FixedHeight(1),
		overscan:          DefaultOverscan,
		estimatedItemSize: DefaultEstimatedItemSize,
		ctrl:              NewController(DefaultMovementThreshold),
		rng:               Range{Start: 0, End: -1},
		cache:             make(map[string]cachedRender),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// ---------------------------------------------------------------------------
// Collection mutations
// ---------------------------------------------------------------------------

// SetItems replaces the item collection. The engine never mutates the slice;
// it only derives geometry from it. Heights and the render cache are
// invalidated because memoization is keyed on the collection reference.
func (m *Model) SetItems(items []Item) {
	m.items = items
	m.cache = make(map[string]cachedRender)
	m.reindex()
	m.recompute(true)
}

// SetHeightPolicy replaces the height policy and re-resolves all heights.
func (m *Model) SetHeightPolicy(p HeightPolicy) {
	m.policy = p
	m.reindex()
	m.recompute(true)
}

// Items returns the current collection. Callers must not mutate it through
// the engine; ownership stays with the caller.
func (m *Model) Items() []Item { return m.items }

// Len returns the collection size.
func (m *Model) Len() int { return len(m.items) }

// ---------------------------------------------------------------------------
// Viewport
// ---------------------------------------------------------------------------

// SetSize updates the viewport dimensions and forces a range recomputation
// regardless of the movement threshold. Width changes invalidate the render
// cache (and height resolution, which is width-dependent for wrapping
// renderers only through the caller's policy).
func (m *Model) SetSize(w, h int) {
	widthChanged := w != m.width
	m.width = w
	m.height = h
	if widthChanged {
		m.cache = make(map[string]cachedRender)
	}
	m.ctrl.SetMaxTop(m.totalHeight - m.height)
	m.recompute(true)
}

// Width returns the viewport width.
func (m *Model) Width() int { return m.width }

// Height returns the viewport height.
func (m *Model) Height() int { return m.height }

// TotalHeight returns the full virtual content height (the exact sum of all
// item heights). This is the "spacer" that keeps scrollbar proportion and
// scroll clamping correct.
func (m *Model) TotalHeight() int { return m.totalHeight }

// ---------------------------------------------------------------------------
// Scrolling
// ---------------------------------------------------------------------------

// ScrollTo moves the viewport to the given line offset.
func (m *Model) ScrollTo(top int) tea.Cmd {
	recompute, settle := m.ctrl.ScrollTo(top)
	if recompute {
		m.recompute(false)
	}
	var cmds []tea.Cmd
	if settle != nil {
		cmds = append(cmds, settle)
	}
	if m.onScroll != nil {
		if cmd := m.onScroll(m.ctrl.State()); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// ScrollBy moves the viewport relative to the current position.
func (m *Model) ScrollBy(delta int) tea.Cmd {
	return m.ScrollTo(m.ctrl.Top() + delta)
}

// ScrollToTop jumps to the first item.
func (m *Model) ScrollToTop() tea.Cmd { return m.ScrollTo(0) }

// ScrollToBottom jumps so the last item's last line is at the viewport
// bottom.
func (m *Model) ScrollToBottom() tea.Cmd {
	return m.ScrollTo(m.totalHeight - m.height)
}

// PageDown scrolls down by one viewport height.
func (m *Model) PageDown() tea.Cmd { return m.ScrollBy(m.height) }

// PageUp scrolls up by one viewport height.
func (m *Model) PageUp() tea.Cmd { return m.ScrollBy(-m.height) }

// HalfPageDown scrolls down by half the viewport height.
func (m *Model) HalfPageDown() tea.Cmd { return m.ScrollBy(m.height / 2) }

// HalfPageUp scrolls up by half the viewport height.
func (m *Model) HalfPageUp() tea.Cmd { return m.ScrollBy(-m.height / 2) }

// AtBottom reports whether the viewport shows the end of the collection.
func (m *Model) AtBottom() bool {
	return m.ctrl.Top() >= m.totalHeight-m.height
}

// ScrollState returns the current scroll offsets.
func (m *Model) ScrollState() ScrollState { return m.ctrl.State() }

// Settled reports whether a settle message is current rather than a
// stale timer from a superseded scroll.
func (m *Model) Settled(msg ScrollSettledMsg) bool { return m.ctrl.Settled(msg) }

// VisibleRange returns the current materialization window.
func (m *Model) VisibleRange() Range { return m.rng }

// ---------------------------------------------------------------------------
// Identity / diagnostics
// ---------------------------------------------------------------------------

// ItemKey resolves the render identity for the item at the absolute index.
func (m *Model) ItemKey(index int) string {
	item := m.items[index]
	if m.getItemKey != nil {
		return m.getItemKey(item, index)
	}
	if item.ID != "" {
		return item.ID
	}
	return "item-" + strconv.Itoa(index)
}

// DuplicateKeys returns keys that resolved to the same render identity
// within the last materialized range. A non-empty result is a caller
// data-integrity bug; rendering proceeds last-write-wins.
func (m *Model) DuplicateKeys() []string { return m.dupKeys }

// InvalidHeights returns how many item heights resolved to <= 0 in the last
// height resolution (clamped to the minimum, counted here).
func (m *Model) InvalidHeights() int { return m.invalidHeights }

// ---------------------------------------------------------------------------
// Position resolution
// ---------------------------------------------------------------------------

// ItemIndexAtPosition resolves a y coordinate relative to the viewport top
// to the absolute index of the item rendered at that line. Returns -1 when
// the coordinate is outside the viewport or below the last item.
func (m *Model) ItemIndexAtPosition(y int) int {
	if y < 0 || y >= m.height || len(m.items) == 0 {
		return -1
	}
	line := m.ctrl.Top() + y
	if line >= m.totalHeight {
		return -1
	}
	if m.index != nil {
		return m.index.IndexAt(line)
	}
	acc := 0
	for i, h := range m.heights {
		acc += h
		if acc > line {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Update / teardown
// ---------------------------------------------------------------------------

// Update handles mouse wheel scrolling, click delegation and the
// scroll-settled signal. Callers forward whichever tea.Msg events the list
// should respond to, with mouse coordinates already relative to the list's
// top-left corner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			return m, m.ScrollBy(-wheelScrollLines)
		case tea.MouseWheelDown:
			return m, m.ScrollBy(wheelScrollLines)
		case tea.MouseWheelLeft:
			m.ctrl.SetLeft(m.ctrl.Left() - 1)
			return m, m.emitScroll()
		case tea.MouseWheelRight:
			m.ctrl.SetLeft(m.ctrl.Left() + 1)
			return m, m.emitScroll()
		}
	case tea.MouseClickMsg:
		idx := m.ItemIndexAtPosition(msg.Y)
		if idx < 0 {
			return m, nil
		}
		item := m.items[idx]
		if m.onItemClick != nil {
			return m, m.onItemClick(item, idx)
		}
		return m, func() tea.Msg { return ItemClickMsg{Item: item, Index: idx} }
	case ScrollSettledMsg:
		if m.ctrl.Settled(msg) && m.onSettled != nil {
			return m, m.onSettled()
		}
	}
	return m, nil
}

func (m *Model) emitScroll() tea.Cmd {
	if m.onScroll == nil {
		return nil
	}
	return m.onScroll(m.ctrl.State())
}

// Close releases the instance: the scroll controller is torn down and any
// pending settle tick becomes stale. Further input is ignored. Must be
// called when the owning view is destroyed.
func (m *Model) Close() {
	m.closed = true
	m.ctrl.Close()
	m.cache = nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the materialized slice: items [rng.Start, rng.End] are
// rendered (through the per-key cache), the assembled block is positioned by
// slicing off the lines between OffsetY and the scroll offset, and the
// result is trimmed to the viewport height. Items outside the range are
// never rendered.
func (m Model) View() string {
	if m.height <= 0 || m.width <= 0 || len(m.items) == 0 || m.rng.Empty() {
		return ""
	}

	lines := make([]string, 0, m.height+m.overscan*m.estimatedItemSize)
	for i := m.rng.Start; i <= m.rng.End && i < len(m.items); i++ {
		lines = append(lines, m.renderLines(i)...)
	}

	// Clip to the viewport: skip the part of the materialized block that is
	// above the scroll offset, then take at most height lines.
	skip := m.ctrl.Top() - m.rng.OffsetY
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	lines = lines[skip:]
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

// renderLines returns the rendered lines for the item at the absolute index,
// through the render cache, padded or clipped to the item's resolved height
// so geometry never drifts from the renderer's output.
func (m Model) renderLines(index int) []string {
	key := m.ItemKey(index)
	h := m.heights[index]
	if cr, ok := m.cache[key]; ok && cr.width == m.width && len(cr.lines) == h {
		return cr.lines
	}

	var rendered string
	if m.renderItem != nil {
		rendered = m.renderItem(m.items[index], index, m.width)
	}
	lines := strings.Split(rendered, "\n")
	// Reconcile with the resolved height: the range math trusts heights, so
	// the rendered block must occupy exactly that many lines.
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	m.cache[key] = cachedRender{lines: lines, width: m.width}
	return lines
}

// ---------------------------------------------------------------------------
// Geometry recomputation
// ---------------------------------------------------------------------------

// reindex re-resolves item heights and rebuilds the prefix index (for large
// collections) and the scroll ceiling.
func (m *Model) reindex() {
	m.heights, m.invalidHeights = ResolveHeights(m.items, m.policy)
	m.totalHeight = TotalHeight(m.heights)
	if len(m.heights) >= prefixIndexThreshold {
		if m.index == nil {
			m.index = NewPrefixIndex(m.heights)
		} else {
			m.index.Rebuild(m.heights)
		}
	} else {
		m.index = nil
	}
	m.ctrl.SetMaxTop(m.totalHeight - m.height)
}

// recompute derives the materialization window from the current scroll
// state. force bypasses nothing here (the threshold gate lives in the
// controller); it marks recomputations that must resync the controller's
// propagation baseline, such as resizes and collection changes.
func (m *Model) recompute(force bool) {
	if m.index != nil {
		m.rng = m.index.Range(m.ctrl.Top(), m.height, m.overscan, m.estimatedItemSize)
	} else {
		m.rng = ComputeRange(m.heights, m.ctrl.Top(), m.height, m.overscan, m.estimatedItemSize)
	}
	if force {
		m.ctrl.ForceSync()
	}
	m.checkKeys()
}

// checkKeys records duplicate render keys within the materialized range.
func (m *Model) checkKeys() {
	m.dupKeys = nil
	if m.rng.Empty() {
		return
	}
	seen := make(map[string]bool, m.rng.Count())
	for i := m.rng.Start; i <= m.rng.End && i < len(m.items); i++ {
		k := m.ItemKey(i)
		if seen[k] {
			m.dupKeys = append(m.dupKeys, k)
		}
		seen[k] = true
	}
}
