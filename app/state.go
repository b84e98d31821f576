package app

// State represents the current application state.
type State int

const (
	StateConnecting State = iota // Waiting for backend health check
	StateBrowsing                // Scrolling the proposals table or activity feed
	StateDetail                  // Proposal detail overlay open
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateBrowsing:
		return "browsing"
	case StateDetail:
		return "detail"
	default:
		return "unknown"
	}
}
