package vlist

import "testing"

// ---------------------------------------------------------------------------
// Threshold gating
// ---------------------------------------------------------------------------

func TestController_MovementBelowThresholdIsCoalesced(t *testing.T) {
	c := NewController(10)
	c.SetMaxTop(1000)
	recompute, cmd := c.ScrollTo(5)
	if recompute {
		t.Error("5-line move with threshold 10 must not trigger recomputation")
	}
	if cmd != nil {
		t.Error("coalesced move must not schedule a settle tick")
	}
	if c.Top() != 5 {
		t.Errorf("offset still tracks coalesced moves: want 5, got %d", c.Top())
	}
}

func TestController_MovementAboveThresholdPropagates(t *testing.T) {
	c := NewController(10)
	c.SetMaxTop(1000)
	recompute, cmd := c.ScrollTo(11)
	if !recompute {
		t.Error("11-line move with threshold 10 must trigger recomputation")
	}
	if cmd == nil {
		t.Error("propagated move must schedule a settle tick")
	}
}

func TestController_DeltaMeasuredFromLastPropagation(t *testing.T) {
	// Three coalesced 4-line moves accumulate into a 12-line delta from the
	// last propagated position, which then crosses the threshold.
	c := NewController(10)
	c.SetMaxTop(1000)
	for _, top := range []int{4, 8} {
		if recompute, _ := c.ScrollTo(top); recompute {
			t.Fatalf("move to %d should still be under threshold", top)
		}
	}
	if recompute, _ := c.ScrollTo(12); !recompute {
		t.Error("accumulated 12-line delta must propagate")
	}
}

func TestController_ZeroThresholdPropagatesEveryMove(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(100)
	if recompute, _ := c.ScrollTo(1); !recompute {
		t.Error("threshold 0: any movement must propagate")
	}
}

// ---------------------------------------------------------------------------
// Clamping
// ---------------------------------------------------------------------------

func TestController_ClampsIntoBounds(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(50)
	c.ScrollTo(200)
	if c.Top() != 50 {
		t.Errorf("want clamp to maxTop=50, got %d", c.Top())
	}
	c.ScrollTo(-10)
	if c.Top() != 0 {
		t.Errorf("want clamp to 0, got %d", c.Top())
	}
}

func TestController_SetMaxTopReclampsCurrentOffset(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(100)
	c.ScrollTo(80)
	c.SetMaxTop(40)
	if c.Top() != 40 {
		t.Errorf("shrinking content must pull the offset back: want 40, got %d", c.Top())
	}
}

func TestController_NoopMoveDoesNothing(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(100)
	c.ScrollTo(30)
	recompute, cmd := c.ScrollTo(30)
	if recompute || cmd != nil {
		t.Error("scrolling to the current offset must be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Horizontal passthrough
// ---------------------------------------------------------------------------

func TestController_LeftIsNeverThresholded(t *testing.T) {
	c := NewController(100)
	c.SetLeft(1)
	if c.Left() != 1 {
		t.Errorf("want Left=1, got %d", c.Left())
	}
	c.SetLeft(-3)
	if c.Left() != 0 {
		t.Errorf("Left must clamp at 0, got %d", c.Left())
	}
}

// ---------------------------------------------------------------------------
// Settle signal
// ---------------------------------------------------------------------------

func TestController_SettleSeqInvalidatedByLaterScroll(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(1000)
	c.ScrollTo(10)
	first := ScrollSettledMsg{Seq: 1}
	c.ScrollTo(20) // resets the settle timer by bumping the sequence
	if c.Settled(first) {
		t.Error("a settle tick scheduled before the latest scroll must be stale")
	}
	if !c.Settled(ScrollSettledMsg{Seq: 2}) {
		t.Error("the latest settle tick must be live")
	}
}

func TestController_CloseInvalidatesPendingSettle(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(1000)
	c.ScrollTo(10)
	c.Close()
	if c.Settled(ScrollSettledMsg{Seq: 1}) {
		t.Error("settle ticks arriving after Close must be discarded")
	}
}

func TestController_CloseIgnoresFurtherInput(t *testing.T) {
	c := NewController(0)
	c.SetMaxTop(1000)
	c.ScrollTo(10)
	c.Close()
	recompute, cmd := c.ScrollTo(500)
	if recompute || cmd != nil {
		t.Error("a closed controller must ignore scroll input")
	}
	if c.Top() != 10 {
		t.Errorf("offset must be frozen after Close, got %d", c.Top())
	}
	c.SetLeft(9)
	if c.Left() != 0 {
		t.Errorf("Left must be frozen after Close, got %d", c.Left())
	}
}

func TestController_ForceSyncResetsBaseline(t *testing.T) {
	c := NewController(10)
	c.SetMaxTop(1000)
	c.ScrollTo(8) // coalesced; baseline still 0
	c.ForceSync()
	if recompute, _ := c.ScrollTo(14); recompute {
		t.Error("after ForceSync the 6-line delta from 8 is under threshold")
	}
}
