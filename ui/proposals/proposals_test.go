package proposals

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/ui/vtable"
)

func makeProposals(n int) []client.Proposal {
	ps := make([]client.Proposal, n)
	for i := range ps {
		ps[i] = client.Proposal{
			ID:           fmt.Sprintf("prop-%d", i),
			Name:         fmt.Sprintf("Asset %d", i),
			AssetType:    "real_estate",
			TargetAmount: "5000000",
			RaisedAmount: "2500000",
			ExpectedAPY:  "12.5",
			Status:       "Active",
		}
	}
	return ps
}

func newTestModel(n int) Model {
	m := New()
	m.SetSize(100, 14)
	m.SetProposals(makeProposals(n))
	return m
}

func TestView_RendersHeaderAndRows(t *testing.T) {
	m := newTestModel(5)
	view := m.View()

	for _, want := range []string{"Name", "Type", "APY", "Status", "Asset 0", "12.5%", "Active", "$5.0M"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestView_VirtualizesLargeCollections(t *testing.T) {
	m := newTestModel(10000)
	view := m.View()
	if !strings.Contains(view, "Asset 0") {
		t.Error("first row not visible at the top")
	}
	if strings.Contains(view, "Asset 500") {
		t.Error("distant row materialized at the top of the viewport")
	}
}

func TestColumns_ValidForTable(t *testing.T) {
	if _, err := vtable.New(Columns()); err != nil {
		t.Fatalf("column set rejected: %v", err)
	}
}

func TestSetSort_ReflectedInHeader(t *testing.T) {
	m := newTestModel(5)
	m.SetSort("expected_apy", vtable.SortDesc)
	if !strings.Contains(m.View(), "APY ▼") {
		t.Errorf("sort indicator missing:\n%s", m.View())
	}
	if got := m.Sort(); got.Column != "expected_apy" || got.Direction != vtable.SortDesc {
		t.Errorf("sort state = %+v", got)
	}
}

func TestSetProposals_KeepsRowOrder(t *testing.T) {
	ps := makeProposals(3)
	ps[0].Name = "Zebra"
	ps[1].Name = "Alpha"
	m := New()
	m.SetSize(100, 14)
	m.SetProposals(ps)

	view := m.View()
	if strings.Index(view, "Zebra") > strings.Index(view, "Alpha") {
		t.Error("view reordered rows; sorting belongs to the data owner")
	}
}
