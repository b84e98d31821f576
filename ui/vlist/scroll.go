package vlist

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// Scroll tuning defaults (terminal-line units).
const (
	// DefaultMovementThreshold is the scroll delta (lines) below which range
	// recomputation is coalesced and dropped. Overscan masks the rows that
	// enter the viewport between recomputations.
	DefaultMovementThreshold = 2

	// ScrollSettleDelay is how long scrolling must be quiet before the
	// controller reports a settled scroll, for deferred non-latency-critical
	// work.
	ScrollSettleDelay = 150 * time.Millisecond

	// wheelScrollLines is the scroll step for one mouse wheel notch.
	wheelScrollLines = 3
)

// ScrollState is the current scroll offset pair. Top is gated by the
// movement threshold for recomputation purposes; Left is tracked without
// thresholding (horizontal passthrough for wide tables).
type ScrollState struct {
	Top  int
	Left int
}

// ScrollSettledMsg is emitted ScrollSettleDelay after the last qualifying
// scroll event. Stale messages (an earlier Seq, or a closed controller) must
// be discarded via Controller.Settled.
type ScrollSettledMsg struct{ Seq int }

// ---------------------------------------------------------------------------
// Controller
// ---------------------------------------------------------------------------

// Controller owns the live scroll state for one list instance. It translates
// raw scroll movement into ScrollState updates, suppresses recomputation
// noise below the movement threshold, and schedules the scroll-settled
// signal.
//
// The bubbletea runtime cannot unschedule a pending tea.Tick, so settle
// timers are cancelled logically: every qualifying scroll bumps Seq, and
// Close marks the controller dead, making any in-flight tick stale. This
// keeps teardown deterministic without leaking callbacks into a destroyed
// view.
type Controller struct {
	state ScrollState

	// lastTop is the scroll offset at the last propagated recomputation.
	lastTop   int
	threshold int

	// maxTop is totalHeight - viewportHeight, the largest valid Top.
	maxTop int

	seq    int
	closed bool
}

// NewController returns a Controller with the given movement threshold.
// A negative threshold falls back to DefaultMovementThreshold.
func NewController(threshold int) Controller {
	if threshold < 0 {
		threshold = DefaultMovementThreshold
	}
	return Controller{threshold: threshold}
}

// State returns the current scroll offsets.
func (c *Controller) State() ScrollState { return c.state }

// Top returns the current vertical scroll offset.
func (c *Controller) Top() int { return c.state.Top }

// Left returns the current horizontal scroll offset.
func (c *Controller) Left() int { return c.state.Left }

// SetThreshold updates the movement threshold.
func (c *Controller) SetThreshold(n int) {
	if n >= 0 {
		c.threshold = n
	}
}

// SetMaxTop updates the scroll ceiling (totalHeight - viewportHeight) and
// clamps the current offset into the new bounds. Called whenever content
// height or viewport height changes.
func (c *Controller) SetMaxTop(max int) {
	if max < 0 {
		max = 0
	}
	c.maxTop = max
	if c.state.Top > max {
		c.state.Top = max
	}
}

// ScrollTo moves the vertical offset to top (clamped into [0, maxTop]).
// recompute reports whether the movement since the last propagated update
// exceeds the threshold, i.e. whether the caller must recompute its visible
// range. cmd, when non-nil, schedules the settled signal for this movement.
func (c *Controller) ScrollTo(top int) (recompute bool, cmd tea.Cmd) {
	if c.closed {
		return false, nil
	}
	if top < 0 {
		top = 0
	}
	if top > c.maxTop {
		top = c.maxTop
	}
	if top == c.state.Top {
		return false, nil
	}
	c.state.Top = top

	delta := top - c.lastTop
	if delta < 0 {
		delta = -delta
	}
	if delta <= c.threshold {
		// Coalesced: the offset moved but recomputation is dropped.
		return false, nil
	}
	c.lastTop = top
	c.seq++
	seq := c.seq
	return true, tea.Tick(ScrollSettleDelay, func(time.Time) tea.Msg {
		return ScrollSettledMsg{Seq: seq}
	})
}

// ScrollBy moves the vertical offset relative to the current position.
func (c *Controller) ScrollBy(delta int) (recompute bool, cmd tea.Cmd) {
	return c.ScrollTo(c.state.Top + delta)
}

// ForceSync snaps the propagated position to the current offset so the next
// recomputation baseline is exact. Used after resize-driven recomputation,
// which bypasses the threshold gate.
func (c *Controller) ForceSync() {
	c.lastTop = c.state.Top
}

// SetLeft updates the horizontal offset. Never thresholded.
func (c *Controller) SetLeft(left int) {
	if c.closed {
		return
	}
	if left < 0 {
		left = 0
	}
	c.state.Left = left
}

// Settled reports whether msg is the live settle signal for this controller.
// Stale sequence numbers and post-Close deliveries return false.
func (c *Controller) Settled(msg ScrollSettledMsg) bool {
	return !c.closed && msg.Seq == c.seq
}

// Close tears the controller down: further scroll input is ignored and any
// pending settle tick is treated as stale.
func (c *Controller) Close() {
	c.closed = true
}
