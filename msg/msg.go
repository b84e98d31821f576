// Package msg defines all tea.Msg types dispatched within the CF1 TUI.
// It depends only on client types, never on UI packages, to avoid
// import cycles.
package msg

import "github.com/cf1-platform/cf1-tui/client"

// -- Lifecycle --

// HealthResult from the initial health check.
type HealthResult struct {
	Status        string
	Version       string
	UptimeSeconds int64
	Network       string
	BlockHeight   int64
	Err           error
}

// -- HTTP responses --

// ProposalPageResult from GET /api/v1/proposals.
type ProposalPageResult struct {
	Proposals []client.Proposal
	Page      int
	Total     int
	Err       error
}

// ActivityPageResult from GET /api/v1/activity.
type ActivityPageResult struct {
	Entries []client.ActivityEntry
	Page    int
	Total   int
	Err     error
}

// ProposalDetailResult from GET /api/v1/proposals/{id}.
type ProposalDetailResult struct {
	Proposal *client.Proposal
	Err      error
}

// -- UI events --

type TickMsg struct{}

// SwitchTabMsg requests a view change: "proposals" or "activity".
type SwitchTabMsg struct {
	Tab string
}

// OpenDetailMsg opens the detail overlay for one proposal.
type OpenDetailMsg struct {
	ProposalID string
}

// CloseDetailMsg dismisses the detail overlay.
type CloseDetailMsg struct{}

// StatusUpdateMsg refreshes the status bar text.
type StatusUpdateMsg struct {
	Text string
}
