package vlist

import "sort"

// Engine defaults (terminal-line units).
const (
	// DefaultOverscan is the number of extra items materialized beyond each
	// viewport edge to mask scroll-induced pop-in.
	DefaultOverscan = 5

	// DefaultEstimatedItemSize is the assumed item height (lines) used to
	// convert the overscan item count into a scan margin.
	DefaultEstimatedItemSize = 1

	// prefixIndexThreshold is the collection size at which Model switches
	// from the linear accumulate-and-scan to the prefix-sum index. Below it
	// the index rebuild cost on every height change outweighs the lookup win.
	prefixIndexThreshold = 128
)

// ---------------------------------------------------------------------------
// Range
// ---------------------------------------------------------------------------

// Range is the materialization window derived from the scroll position:
// items [Start, End] (inclusive) must be rendered, positioned OffsetY lines
// below the top of the virtual content. An empty collection yields
// Start=0, End=-1, OffsetY=0.
type Range struct {
	Start   int
	End     int
	OffsetY int
}

// Empty reports whether the range contains no items.
func (r Range) Empty() bool { return r.End < r.Start }

// Count returns the number of materialized items.
func (r Range) Count() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether the absolute index i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i <= r.End }

// TotalHeight returns the exact sum of all item heights. This is the virtual
// content height backing scrollbar proportions and scroll clamping.
func TotalHeight(heights []int) int {
	total := 0
	for _, h := range heights {
		total += h
	}
	return total
}

// ---------------------------------------------------------------------------
// ComputeRange — linear accumulate-and-scan
// ---------------------------------------------------------------------------

// ComputeRange derives the materialization window for the given scroll
// offset. It is a pure function: no state, no randomness, identical inputs
// always produce identical output.
//
// Algorithm:
//  1. Walk items accumulating height; the first index whose cumulative
//     height exceeds scrollTop is the raw start. Subtract overscan items
//     (clamped to 0) for Start.
//  2. Continue accumulating from Start until the accumulated height covers
//     the viewport plus an overscan margin of overscan*estimatedItemSize
//     lines, measured from scrollTop. That index is End; if the scan runs
//     out of items the remainder fits entirely and End is the last index.
//  3. OffsetY is the cumulative height of all items strictly before Start.
//
// A viewportHeight <= 0 is degenerate but not fatal: End clamps to Start.
// The scan is O(n); Model routes large collections through PrefixIndex,
// which produces identical output in O(log n).
func ComputeRange(heights []int, scrollTop, viewportHeight, overscan, estimatedItemSize int) Range {
	n := len(heights)
	if n == 0 {
		return Range{Start: 0, End: -1, OffsetY: 0}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	if estimatedItemSize <= 0 {
		estimatedItemSize = DefaultEstimatedItemSize
	}

	// Raw start: first index whose cumulative height exceeds scrollTop.
	raw := n - 1
	acc := 0
	for i, h := range heights {
		acc += h
		if acc > scrollTop {
			raw = i
			break
		}
	}

	start := raw - overscan
	if start < 0 {
		start = 0
	}

	offsetY := 0
	for i := 0; i < start; i++ {
		offsetY += heights[i]
	}

	if viewportHeight <= 0 {
		return Range{Start: start, End: start, OffsetY: offsetY}
	}

	// End: cover [scrollTop, scrollTop+viewportHeight] plus the overscan
	// margin, accumulating from Start (so the partially hidden top rows are
	// part of the budget).
	budget := (scrollTop - offsetY) + viewportHeight + overscan*estimatedItemSize
	end := n - 1
	acc = 0
	for j := start; j < n; j++ {
		acc += heights[j]
		if acc >= budget {
			end = j
			break
		}
	}

	return Range{Start: start, End: end, OffsetY: offsetY}
}

// ---------------------------------------------------------------------------
// PrefixIndex — O(log n) range lookups over cumulative heights
// ---------------------------------------------------------------------------

// PrefixIndex maps item index -> cumulative offset so that range lookups
// become binary searches. Rebuilding is O(n) and happens only when heights
// change; lookups are O(log n). Range produces output identical to
// ComputeRange for the same inputs.
type PrefixIndex struct {
	// prefix[i] is the total height of items strictly before i;
	// prefix[len(heights)] is the total content height.
	prefix []int
}

// NewPrefixIndex builds an index over the given heights.
func NewPrefixIndex(heights []int) *PrefixIndex {
	p := &PrefixIndex{}
	p.Rebuild(heights)
	return p
}

// Rebuild recomputes the cumulative offsets from scratch.
func (p *PrefixIndex) Rebuild(heights []int) {
	if cap(p.prefix) < len(heights)+1 {
		p.prefix = make([]int, len(heights)+1)
	} else {
		p.prefix = p.prefix[:len(heights)+1]
	}
	p.prefix[0] = 0
	for i, h := range heights {
		p.prefix[i+1] = p.prefix[i] + h
	}
}

// Len returns the number of indexed items.
func (p *PrefixIndex) Len() int { return len(p.prefix) - 1 }

// Total returns the full virtual content height.
func (p *PrefixIndex) Total() int { return p.prefix[len(p.prefix)-1] }

// OffsetOf returns the cumulative height of all items strictly before i.
func (p *PrefixIndex) OffsetOf(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(p.prefix) {
		return p.Total()
	}
	return p.prefix[i]
}

// IndexAt returns the index of the item containing line y, i.e. the first
// index whose cumulative height exceeds y. Clamps to the last index when y
// is at or beyond the total height; returns 0 for an empty index.
func (p *PrefixIndex) IndexAt(y int) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	if y < 0 {
		y = 0
	}
	i := sort.Search(n, func(i int) bool { return p.prefix[i+1] > y })
	if i >= n {
		return n - 1
	}
	return i
}

// Range is the binary-search equivalent of ComputeRange.
func (p *PrefixIndex) Range(scrollTop, viewportHeight, overscan, estimatedItemSize int) Range {
	n := p.Len()
	if n == 0 {
		return Range{Start: 0, End: -1, OffsetY: 0}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	if estimatedItemSize <= 0 {
		estimatedItemSize = DefaultEstimatedItemSize
	}

	start := p.IndexAt(scrollTop) - overscan
	if start < 0 {
		start = 0
	}
	offsetY := p.prefix[start]

	if viewportHeight <= 0 {
		return Range{Start: start, End: start, OffsetY: offsetY}
	}

	budget := (scrollTop - offsetY) + viewportHeight + overscan*estimatedItemSize
	// First index end >= start with prefix[end+1]-prefix[start] >= budget.
	end := start + sort.Search(n-start, func(k int) bool {
		return p.prefix[start+k+1]-p.prefix[start] >= budget
	})
	if end >= n {
		end = n - 1
	}

	return Range{Start: start, End: end, OffsetY: offsetY}
}
