// Package vlist implements the collection virtualization engine for cf1-tui.
// It renders large (tens of thousands of rows) collections by materializing
// only the items intersecting the current viewport, while keeping scroll
// arithmetic correct against the full virtual height.
//
// Key properties:
//   - Height resolution via a tagged policy: one fixed height for every item
//     (O(1), no per-item call) or a per-item function invoked once per
//     recomputation.
//   - Pure range computation: identical inputs always yield identical output.
//   - Prefix-sum index with binary search for large collections; the linear
//     accumulate-and-scan remains the reference path for small ones.
//   - Scroll state owned per instance, never module-level.
package vlist

// minItemHeight is the clamp floor applied to invalid (<= 0) resolved
// heights so a bad height policy degrades to cramped rows instead of an
// unusable blank viewport.
const minItemHeight = 1

// Item is one row of a virtualized collection. ID must be unique and stable
// across re-renders of the same logical row; it is the only field allowed to
// serve as render identity. Data carries whatever the row renderer needs.
type Item struct {
	ID   string
	Data any
}

// ---------------------------------------------------------------------------
// HeightPolicy
// ---------------------------------------------------------------------------

// HeightPolicy resolves the rendered height (in terminal lines) of each item.
// It is a two-variant tagged union: a fixed height shared by all items, or a
// per-item function. Construct with FixedHeight or HeightFunc; the zero value
// behaves like FixedHeight(1).
type HeightPolicy struct {
	fixed int
	fn    func(item Item, index int) int
}

// FixedHeight returns a policy where every item is h lines tall.
func FixedHeight(h int) HeightPolicy {
	return HeightPolicy{fixed: h}
}

// HeightFunc returns a policy that asks fn for each item's height. fn is
// invoked once per item per recomputation; the engine memoizes the resolved
// slice against the item collection, so fn does not run on every render.
func HeightFunc(fn func(item Item, index int) int) HeightPolicy {
	return HeightPolicy{fn: fn}
}

// Fixed reports whether the policy is a constant height (and that height).
func (p HeightPolicy) Fixed() (int, bool) {
	if p.fn != nil {
		return 0, false
	}
	return p.fixedOrDefault(), true
}

func (p HeightPolicy) fixedOrDefault() int {
	if p.fixed <= 0 {
		return minItemHeight
	}
	return p.fixed
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveHeights returns one height per item, in item order. Heights that
// resolve to <= 0 are a caller error: they are clamped to minItemHeight and
// counted, and the count is returned so callers can surface the bug instead
// of silently recovering.
func ResolveHeights(items []Item, policy HeightPolicy) (heights []int, invalid int) {
	heights = make([]int, len(items))
	if fixed, ok := policy.Fixed(); ok {
		// A negative fixed height is a caller error; zero is the unset
		// default and resolves to minItemHeight silently.
		if policy.fixed < 0 {
			invalid = len(items)
		}
		for i := range heights {
			heights[i] = fixed
		}
		return heights, invalid
	}
	for i, item := range items {
		h := policy.fn(item, i)
		if h <= 0 {
			h = minItemHeight
			invalid++
		}
		heights[i] = h
	}
	return heights, invalid
}
