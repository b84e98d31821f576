// Package proposals renders the launchpad proposal table: fixed-height
// virtualized rows with sortable columns. Sorting is delegated to the
// data owner via vtable.SortMsg; this view never reorders rows itself.
package proposals

import (
	tea "charm.land/bubbletea/v2"

	"github.com/cf1-platform/cf1-tui/client"
	"github.com/cf1-platform/cf1-tui/style"
	"github.com/cf1-platform/cf1-tui/ui/common"
	"github.com/cf1-platform/cf1-tui/ui/vlist"
	"github.com/cf1-platform/cf1-tui/ui/vtable"
)

// Columns of the proposal table. Percentage columns share the width
// left over after the fixed ones.
func Columns() []vtable.Column {
	return []vtable.Column{
		{Key: "name", Title: "Name", Pct: 40, Sortable: true, Render: renderName},
		{Key: "asset_type", Title: "Type", Width: 14, Sortable: true, Render: renderAssetType},
		{Key: "target_amount", Title: "Target", Width: 9, Sortable: true, Render: renderTarget},
		{Key: "funding", Title: "Funding", Width: 14, Render: renderFunding},
		{Key: "expected_apy", Title: "APY", Width: 6, Sortable: true, Render: renderAPY},
		{Key: "status", Title: "Status", Width: 10, Sortable: true, Render: renderStatus},
	}
}

// Model is the proposals tab view.
type Model struct {
	table vtable.Model
}

// New builds the proposal table. The column set is static, so the
// vtable constructor cannot fail here.
func New() Model {
	t, err := vtable.New(Columns())
	if err != nil {
		panic("proposals: invalid column set: " + err.Error())
	}
	return Model{table: t}
}

// SetProposals replaces the table rows.
func (m *Model) SetProposals(ps []client.Proposal) {
	items := make([]vlist.Item, len(ps))
	for i, p := range ps {
		items[i] = vlist.Item{ID: p.ID, Data: p}
	}
	m.table.SetItems(items)
}

// SetSize resizes the table.
func (m *Model) SetSize(width, height int) {
	m.table.SetSize(width, height)
}

// SetSort reflects the active server-side sort in the header.
func (m *Model) SetSort(column string, direction vtable.SortDirection) {
	m.table.SetSort(column, direction)
}

// Sort returns the current sort state.
func (m Model) Sort() vtable.SortState { return m.table.Sort() }

// Table exposes the underlying table for scroll commands.
func (m *Model) Table() *vtable.Model { return &m.table }

// List exposes the underlying virtualized list.
func (m *Model) List() *vlist.Model { return m.table.List() }

// Update forwards input to the table.
func (m Model) Update(tmsg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(tmsg)
	return m, cmd
}

// Close releases table resources.
func (m *Model) Close() {
	m.table.Close()
}

// View renders the table.
func (m Model) View() string {
	return m.table.View()
}

// ---------------------------------------------------------------------------
// Cell renderers — the table truncates and pads to the resolved column
// width, so these only produce the content.
// ---------------------------------------------------------------------------

// fundingBarWidth leaves room in the fixed Funding column for the "NN%"
// suffix.
const fundingBarWidth = 10

func proposal(item vlist.Item) (client.Proposal, bool) {
	p, ok := item.Data.(client.Proposal)
	return p, ok
}

func renderName(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	return p.Name
}

func renderAssetType(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	return style.Faint.Render(p.AssetType)
}

func renderTarget(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	return common.FormatAmount(p.TargetAmount)
}

func renderFunding(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	ratio := common.FundingRatio(p.RaisedAmount, p.TargetAmount)
	return style.FundingBarRender(ratio, fundingBarWidth)
}

func renderAPY(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	return common.FormatAPY(p.ExpectedAPY)
}

func renderStatus(item vlist.Item, _ int) string {
	p, ok := proposal(item)
	if !ok {
		return ""
	}
	return style.ProposalStatus(p.Status).Render(p.Status)
}
