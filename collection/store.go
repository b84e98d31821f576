// Package collection owns the backing item slice consumed by the
// virtualized views: incremental load-more pagination plus simple
// copy-on-write mutations. It never participates in geometry; the engine
// only reads the slices it produces.
//
// Every mutation returns a fresh slice so memoized height resolutions keyed
// on the collection reference invalidate correctly.
package collection

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/cf1-platform/cf1-tui/ui/vlist"
)

// PageFunc fetches one page of items and the server-reported collection
// total (0 when the server does not provide one). The context is cancelled
// when the store is reset or closed while the fetch is in flight.
type PageFunc func(ctx context.Context, page int) ([]vlist.Item, int, error)

// PageResult is delivered back to the program loop when a fetch finishes.
// Seq is the store's fetch token; results carrying a stale token are
// discarded by Apply, so fetches that outlive a Reset or Close cannot
// corrupt the collection.
type PageResult struct {
	Seq   int
	Page  int
	Items []vlist.Item
	Total int
	Err   error
}

// Store is an optional collection-lifecycle helper. All state is instance
// local; the single-threaded program loop is the only mutator.
type Store struct {
	items   []vlist.Item
	page    int
	total   int
	loading bool
	hasMore bool

	seq    int
	cancel context.CancelFunc
}

// NewStore returns an empty store that believes more pages exist.
func NewStore() *Store {
	return &Store{hasMore: true}
}

// Items returns the current collection. The slice is owned by the store's
// consumers collectively: it is never mutated in place, only replaced.
func (s *Store) Items() []vlist.Item { return s.items }

// Len returns the collection size.
func (s *Store) Len() int { return len(s.items) }

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool { return s.loading }

// HasMore reports whether another page may exist.
func (s *Store) HasMore() bool { return s.hasMore }

// Total returns the server-reported collection size, 0 if unknown.
func (s *Store) Total() int { return s.total }

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

// LoadMore starts fetching the next page. It is a no-op (returns nil) while
// a fetch is in flight or after the final page was seen, so repeated
// bottom-of-list triggers cannot issue duplicate fetches.
func (s *Store) LoadMore(fetch PageFunc) tea.Cmd {
	if s.loading || !s.hasMore {
		return nil
	}
	s.loading = true
	s.seq++

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	seq, page := s.seq, s.page
	return func() tea.Msg {
		items, total, err := fetch(ctx, page)
		cancel()
		return PageResult{Seq: seq, Page: page, Items: items, Total: total, Err: err}
	}
}

// Apply folds a fetch result into the store. Stale results (an earlier Seq)
// are dropped without any state change. A failed fetch resets the loading
// guard and returns the error for the caller to surface; the collection and
// its order are untouched, so already-rendered rows stay exactly as they
// were. An empty page flips hasMore off.
func (s *Store) Apply(res PageResult) (appended int, err error) {
	if res.Seq != s.seq {
		return 0, nil
	}
	s.loading = false
	s.cancel = nil
	if res.Err != nil {
		return 0, res.Err
	}
	if res.Total > 0 {
		s.total = res.Total
	}
	if len(res.Items) == 0 {
		s.hasMore = false
		return 0, nil
	}
	s.page = res.Page + 1
	s.items = appendCopy(s.items, res.Items...)
	if s.total > 0 && len(s.items) >= s.total {
		s.hasMore = false
	}
	return len(res.Items), nil
}

// ---------------------------------------------------------------------------
// Mutations — all copy-on-write
// ---------------------------------------------------------------------------

// Reset replaces the collection wholesale, cancels any in-flight fetch and
// restarts pagination from the first page.
func (s *Store) Reset(items []vlist.Item) {
	s.abort()
	s.items = append([]vlist.Item(nil), items...)
	s.page = 0
	s.total = 0
	s.hasMore = true
}

// Add appends items to the collection.
func (s *Store) Add(items ...vlist.Item) {
	s.items = appendCopy(s.items, items...)
}

// Remove deletes the item with the given id. Reports whether it was found.
func (s *Store) Remove(id string) bool {
	for i, item := range s.items {
		if item.ID == id {
			next := make([]vlist.Item, 0, len(s.items)-1)
			next = append(next, s.items[:i]...)
			next = append(next, s.items[i+1:]...)
			s.items = next
			return true
		}
	}
	return false
}

// Update replaces the item with the given id by mutate's return value.
// Reports whether it was found.
func (s *Store) Update(id string, mutate func(vlist.Item) vlist.Item) bool {
	for i, item := range s.items {
		if item.ID == id {
			next := append([]vlist.Item(nil), s.items...)
			next[i] = mutate(item)
			s.items = next
			return true
		}
	}
	return false
}

// Close cancels any in-flight fetch and invalidates its result token.
// Call on teardown of the owning view.
func (s *Store) Close() {
	s.abort()
	s.hasMore = false
}

// abort cancels the in-flight fetch, if any, and bumps the token so its
// late result is discarded by Apply.
func (s *Store) abort() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loading = false
	s.seq++
}

func appendCopy(dst []vlist.Item, items ...vlist.Item) []vlist.Item {
	next := make([]vlist.Item, 0, len(dst)+len(items))
	next = append(next, dst...)
	next = append(next, items...)
	return next
}
