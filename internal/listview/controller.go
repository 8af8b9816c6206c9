package listview

import (
	"context"
	"fmt"
	"sync"
)

// State is the lifecycle state of a list view.
type State int

const (
	// StateIdle means nothing has been requested yet.
	StateIdle State = iota
	// StateLoading means a page is being fetched; no rows are shown.
	StateLoading
	// StateReady holds the last successful page and its derived view.
	StateReady
	// StateError means the last fetch failed; only Refresh leaves it.
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// PageFetcher fetches one page of records. Filters are passed along for fetchers
// that can use them; the controller still filters locally.
type PageFetcher[T any] func(ctx context.Context, req PageRequest, filters FilterState) ([]T, error)

// Ticket identifies one issued fetch. Only the ticket with the latest sequence
// number is applied when resolved.
type Ticket struct {
	Seq     uint64
	Request PageRequest
	Filters FilterState
}

// Snapshot is what a host view renders.
type Snapshot[T any] struct {
	State    State
	Page     int
	PageSize int
	Records  []T
	Fetched  int
	HasMore  bool
	Loading  bool
	Err      error
	Filters  FilterState
	Sort     SortState
}

// Controller drives one list view. It is safe for concurrent use: fetches may
// resolve on other goroutines than the one navigating.
type Controller[T any] struct {
	mu sync.Mutex

	schema Schema[T]
	fetch  PageFetcher[T]

	cursor  Cursor
	window  Window[T]
	filters FilterState
	sort    SortState

	state State
	err   error
	seq   uint64
	view  []T
}

// NewController creates an idle controller on page 1.
func NewController[T any](fetch PageFetcher[T], schema Schema[T], pageSize int) (*Controller[T], error) {
	if fetch == nil {
		return nil, ErrNilFetcher
	}
	return &Controller[T]{
		schema: schema,
		fetch:  fetch,
		cursor: NewCursor(pageSize),
		state:  StateIdle,
	}, nil
}

// Schema returns the view schema.
func (c *Controller[T]) Schema() Schema[T] {
	return c.schema
}

// Begin issues a fetch for the current cursor position and enters Loading.
// Any ticket issued earlier becomes stale.
func (c *Controller[T]) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidateLocked()
	return Ticket{Seq: c.seq, Request: c.cursor.Request(), Filters: c.filters.Clone()}
}

// Resolve applies the outcome of a fetch. Stale tickets are discarded and
// Resolve returns false. A fetch error empties the window and enters Error.
func (c *Controller[T]) Resolve(t Ticket, records []T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Seq != c.seq {
		return false
	}

	if err != nil {
		c.window.Fail()
		c.err = err
		c.state = StateError
		c.view = nil
		return true
	}

	c.window.Set(records, t.Request.PageSize)
	c.err = nil
	c.state = StateReady
	c.deriveLocked()
	return true
}

// Fetch runs the fetcher for a ticket. It does not touch controller state.
func (c *Controller[T]) Fetch(ctx context.Context, t Ticket) ([]T, error) {
	records, err := c.fetch(ctx, t.Request, t.Filters)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", t.Request.PageNumber, err)
	}
	return records, nil
}

// Load issues, runs and resolves a fetch for the current position.
// It returns the fetch error, or ErrSuperseded when a newer request won.
func (c *Controller[T]) Load(ctx context.Context) error {
	t := c.Begin()
	records, err := c.Fetch(ctx, t)
	if !c.Resolve(t, records, err) {
		return ErrSuperseded
	}
	return err
}

// GoToPage moves to page n (clamped to 1). It reports whether a fetch is needed.
func (c *Controller[T]) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(c.cursor.GoToPage(n))
}

// NextPage advances one page. The controller does not check hasMore; hosts
// disable the control when Snapshot().HasMore is false.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(c.cursor.Next())
}

// PreviousPage goes back one page; on page 1 it does nothing and returns false.
func (c *Controller[T]) PreviousPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(c.cursor.Previous())
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T]) SetPageSize(n int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed, err := c.cursor.SetPageSize(n)
	if err != nil {
		return false, err
	}
	return c.moveLocked(changed), nil
}

// Refresh discards the current window and enters Loading. It is the only way
// out of the Error state. The caller follows up with Begin or Load.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

// SetSearch sets the search text and re-derives the view without fetching.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SearchText = text
	c.deriveLocked()
}

// SetCategory selects a value for a category filter; AllValues disables it.
func (c *Controller[T]) SetCategory(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.schema.Category(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	if c.filters.Categories == nil {
		c.filters.Categories = make(map[string]string)
	}
	c.filters.Categories[name] = value
	c.deriveLocked()
	return nil
}

// ClearFilters resets search text and every category filter.
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = FilterState{}
	c.deriveLocked()
}

// ToggleSort selects key: the same key flips direction, a new key sorts ascending.
func (c *Controller[T]) ToggleSort(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.schema.SortKey(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	c.sort = c.sort.Toggle(key)
	c.deriveLocked()
	return nil
}

// SetSort replaces the sort state. The zero SortState clears sorting.
func (c *Controller[T]) SetSort(s SortState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !s.IsNone() {
		if _, ok := c.schema.SortKey(s.Key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSortKey, s.Key)
		}
	}
	c.sort = s
	c.deriveLocked()
	return nil
}

// Snapshot returns the current renderable state. Records is nil unless Ready.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot[T]{
		State:    c.state,
		Page:     c.cursor.Page(),
		PageSize: c.cursor.PageSize(),
		Loading:  c.state == StateLoading,
		Err:      c.err,
		Filters:  c.filters.Clone(),
		Sort:     c.sort,
	}
	if c.state == StateReady {
		snap.Records = make([]T, len(c.view))
		copy(snap.Records, c.view)
		snap.Fetched = c.window.Len()
		snap.HasMore = c.window.HasMore()
	}
	return snap
}

func (c *Controller[T]) moveLocked(changed bool) bool {
	if changed {
		c.invalidateLocked()
	}
	return changed
}

// invalidateLocked drops the window, bumps the sequence so in-flight responses
// become stale, and enters Loading. Must be called with mu held.
func (c *Controller[T]) invalidateLocked() {
	c.seq++
	c.window = Window[T]{}
	c.view = nil
	c.err = nil
	c.state = StateLoading
}

// deriveLocked recomputes the filtered, sorted view. Must be called with mu held.
func (c *Controller[T]) deriveLocked() {
	if c.state != StateReady {
		return
	}
	filtered := Filter(c.schema, c.filters, c.window.Records())
	c.view = Sort(c.schema, c.sort, filtered)
}
