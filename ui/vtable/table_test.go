package vtable

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cf1-platform/cf1-tui/ui/vlist"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type row struct {
	Name  string
	Value int
}

func testColumns() []Column {
	return []Column{
		{Key: "name", Title: "Name", Width: 12, Sortable: true,
			Render: func(item vlist.Item, _ int) string { return item.Data.(row).Name }},
		{Key: "value", Title: "Value", Width: 8, Sortable: true,
			Render: func(item vlist.Item, _ int) string { return fmt.Sprint(item.Data.(row).Value) }},
		{Key: "note", Title: "Note", Pct: 100,
			Render: func(vlist.Item, int) string { return "n/a" }},
	}
}

func testRows(n int) []vlist.Item {
	items := make([]vlist.Item, n)
	for i := range items {
		items[i] = vlist.Item{
			ID:   fmt.Sprintf("p-%d", i),
			Data: row{Name: fmt.Sprintf("proposal %d", i), Value: i * 10},
		}
	}
	return items
}

func newTestTable(t *testing.T, n int, opts ...Option) Model {
	t.Helper()
	base := []Option{WithSize(60, 12), WithMovementThreshold(0)}
	m, err := New(testColumns(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.SetItems(testRows(n))
	return m
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestNew_RejectsInvalidColumns(t *testing.T) {
	cases := []struct {
		name string
		cols []Column
	}{
		{"empty", nil},
		{"no width", []Column{{Key: "a", Title: "A"}}},
		{"negative width", []Column{{Key: "a", Title: "A", Width: -3, Pct: 10}}},
		{"empty key", []Column{{Title: "A", Width: 5}}},
		{"duplicate key", []Column{{Key: "a", Width: 5}, {Key: "a", Width: 5}}},
	}
	for _, c := range cases {
		if _, err := New(c.cols); err == nil {
			t.Errorf("%s: want error, got nil", c.name)
		}
	}
}

// ---------------------------------------------------------------------------
// Sort toggle law
// ---------------------------------------------------------------------------

func TestSortState_ToggleLaw(t *testing.T) {
	var s SortState
	s = s.Toggle("a")
	if s != (SortState{Column: "a", Direction: SortAsc}) {
		t.Fatalf("first click: want {a asc}, got %+v", s)
	}
	s = s.Toggle("a")
	if s.Direction != SortDesc {
		t.Fatalf("second click: want desc, got %+v", s)
	}
	s = s.Toggle("a")
	if s.Direction != SortAsc {
		t.Fatalf("third click: asc only after passing through desc, got %+v", s)
	}
	s = s.Toggle("b")
	if s != (SortState{Column: "b", Direction: SortAsc}) {
		t.Fatalf("new column: want {b asc}, got %+v", s)
	}
}

func TestCycleSort_EmitsSortMsgAndNeverReordersData(t *testing.T) {
	m := newTestTable(t, 20)
	firstBefore := m.List().Items()[0].ID

	cmd := m.CycleSort("value")
	if cmd == nil {
		t.Fatal("want SortMsg cmd")
	}
	msg, ok := cmd().(SortMsg)
	if !ok {
		t.Fatalf("want SortMsg, got %T", cmd())
	}
	if msg.Column != "value" || msg.Direction != SortAsc {
		t.Errorf("want {value asc}, got %+v", msg)
	}
	if m.List().Items()[0].ID != firstBefore {
		t.Error("the table must not sort data itself")
	}
}

func TestCycleSort_IgnoresNonSortableAndUnknown(t *testing.T) {
	m := newTestTable(t, 5)
	if cmd := m.CycleSort("note"); cmd != nil {
		t.Error("non-sortable column must not toggle")
	}
	if cmd := m.CycleSort("ghost"); cmd != nil {
		t.Error("unknown column must not toggle")
	}
	if m.Sort() != (SortState{}) {
		t.Errorf("sort state must be untouched, got %+v", m.Sort())
	}
}

func TestCycleSort_HandlerOverride(t *testing.T) {
	var got []string
	m := newTestTable(t, 5, WithOnSort(func(col string, dir SortDirection) tea.Cmd {
		got = append(got, col+":"+string(dir))
		return nil
	}))
	m.CycleSort("name")
	m.CycleSort("name")
	m.CycleSort("value")
	want := []string{"name:asc", "name:desc", "value:asc"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Header interaction
// ---------------------------------------------------------------------------

func TestColumnAtX_HitTest(t *testing.T) {
	m := newTestTable(t, 1)
	// Fixed widths 12 and 8 with 2-cell gaps: name 0..11, gap, value 14..21.
	cases := []struct{ x, want int }{
		{0, 0}, {11, 0}, {12, -1}, {13, -1}, {14, 1}, {21, 1}, {-2, -1},
	}
	for _, c := range cases {
		if got := m.columnAtX(c.x); got != c.want {
			t.Errorf("columnAtX(%d): want %d, got %d", c.x, c.want, got)
		}
	}
}

func TestUpdate_HeaderClickTogglesSort(t *testing.T) {
	m := newTestTable(t, 10)
	m, cmd := m.Update(tea.MouseClickMsg{X: 2, Y: 0})
	if cmd == nil {
		t.Fatal("header click on sortable column must emit a sort cmd")
	}
	if m.Sort() != (SortState{Column: "name", Direction: SortAsc}) {
		t.Errorf("want {name asc}, got %+v", m.Sort())
	}
}

func TestUpdate_SeparatorClickDoesNothing(t *testing.T) {
	m := newTestTable(t, 10)
	m, cmd := m.Update(tea.MouseClickMsg{X: 2, Y: 1})
	if cmd != nil || m.Sort() != (SortState{}) {
		t.Error("separator row click must be inert")
	}
}

// ---------------------------------------------------------------------------
// Body delegation
// ---------------------------------------------------------------------------

func TestUpdate_BodyClickDeliversAbsoluteRowIndex(t *testing.T) {
	m := newTestTable(t, 200)
	m.List().ScrollTo(40)

	// Body click at viewport line 3 = collection row 43; the list emits
	// ItemClickMsg, which the table converts for its own consumers.
	m, cmd := m.Update(tea.MouseClickMsg{X: 5, Y: 3 + headerHeight})
	if cmd == nil {
		t.Fatal("want click cmd from body")
	}
	click, ok := cmd().(vlist.ItemClickMsg)
	if !ok {
		t.Fatalf("want vlist.ItemClickMsg, got %T", cmd())
	}
	if click.Index != 43 {
		t.Errorf("want absolute row 43, got %d", click.Index)
	}

	m, cmd = m.Update(click)
	if cmd == nil {
		t.Fatal("want RowClickMsg cmd")
	}
	rowClick, ok := cmd().(RowClickMsg)
	if !ok {
		t.Fatalf("want RowClickMsg, got %T", cmd())
	}
	if rowClick.Index != 43 || rowClick.Item.ID != "p-43" {
		t.Errorf("want p-43 at 43, got %+v", rowClick)
	}
}

func TestUpdate_RowClickHandler(t *testing.T) {
	var gotIdx int
	m := newTestTable(t, 10, WithOnRowClick(func(item vlist.Item, index int) tea.Cmd {
		gotIdx = index
		return nil
	}))
	m, _ = m.Update(vlist.ItemClickMsg{Item: testRows(10)[7], Index: 7})
	if gotIdx != 7 {
		t.Errorf("want handler called with 7, got %d", gotIdx)
	}
}

func TestUpdate_WheelScrollsBody(t *testing.T) {
	m := newTestTable(t, 100)
	m, _ = m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.List().ScrollState().Top == 0 {
		t.Error("wheel must scroll the body list")
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func TestView_HeaderAndRows(t *testing.T) {
	m := newTestTable(t, 50)
	out := m.View()
	if !strings.Contains(out, "Name") || !strings.Contains(out, "Value") {
		t.Errorf("header titles missing: %q", out)
	}
	if !strings.Contains(out, "proposal 0") {
		t.Errorf("first row missing: %q", out)
	}
	if strings.Contains(out, "proposal 49") {
		t.Error("far off-screen row must not be materialized")
	}
	if got := len(strings.Split(out, "\n")); got != 12 {
		t.Errorf("view must fill its height exactly: want 12 lines, got %d", got)
	}
}

func TestView_SortIndicator(t *testing.T) {
	m := newTestTable(t, 5)
	m.CycleSort("value")
	if !strings.Contains(m.View(), "▲") {
		t.Error("ascending indicator missing from header")
	}
	m.CycleSort("value")
	if !strings.Contains(m.View(), "▼") {
		t.Error("descending indicator missing from header")
	}
}

func TestView_BodyHeightExcludesHeader(t *testing.T) {
	m := newTestTable(t, 100)
	if got := m.List().Height(); got != 12-headerHeight {
		t.Errorf("body height: want %d, got %d", 12-headerHeight, got)
	}
}

func TestSetItems_SortedSliceIsDisplayedAsGiven(t *testing.T) {
	m := newTestTable(t, 0)
	items := testRows(3)
	items[0], items[2] = items[2], items[0] // caller-sorted order
	m.SetItems(items)
	out := m.View()
	if !strings.Contains(out, "proposal 2") {
		t.Errorf("want caller order respected, got %q", out)
	}
	first := strings.SplitN(out, "\n", 4)[2] // header, separator, first row
	if !strings.Contains(first, "proposal 2") {
		t.Errorf("first body row must be the caller's first item, got %q", first)
	}
}

func TestWithSort_SeedsInitialState(t *testing.T) {
	m := newTestTable(t, 5, WithSort("value", SortDesc))
	if got := m.Sort(); got.Column != "value" || got.Direction != SortDesc {
		t.Errorf("initial sort: want value/desc, got %+v", got)
	}
	if !strings.Contains(m.View(), "▼") {
		t.Error("descending indicator missing for seeded sort state")
	}
	m.CycleSort("value")
	if got := m.Sort(); got.Direction != SortAsc {
		t.Errorf("toggling the seeded column must flip direction, got %+v", got)
	}
}

func TestWithRowHeight_DrivesBodyGeometry(t *testing.T) {
	m := newTestTable(t, 20, WithRowHeight(vlist.FixedHeight(2)))
	if got := m.List().TotalHeight(); got != 40 {
		t.Errorf("total height: want 40, got %d", got)
	}
	out := m.View()
	if got := len(strings.Split(out, "\n")); got != 12 {
		t.Errorf("view must still fill its height exactly: want 12 lines, got %d", got)
	}
	// Body is 10 lines, so two-line rows leave room for five of them.
	if strings.Contains(out, "proposal 5") {
		t.Error("row past the two-line window must not be rendered")
	}
}

func TestSetSize_AfterConstructionDrivesRowGeometry(t *testing.T) {
	m, err := New(testColumns())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.SetItems(testRows(5))
	m.SetSize(60, 12)

	lines := strings.Split(m.View(), "\n")
	if !strings.Contains(lines[2], "n/a") {
		t.Errorf("percentage column must get its share of the sized width, got %q", lines[2])
	}
	if hw, rw := lipgloss.Width(lines[0]), lipgloss.Width(lines[2]); hw != rw {
		t.Errorf("header and body widths diverge: %d vs %d", hw, rw)
	}

	m.SetSize(100, 12)
	wide := strings.Split(m.View(), "\n")
	if got := lipgloss.Width(wide[2]); got != 99 {
		t.Errorf("rows must track a later resize: want width 99, got %d", got)
	}
}
