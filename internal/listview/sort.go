package listview

import (
	"fmt"
	"sort"
	"strings"
)

// Direction is the sort direction.
type Direction int

const (
	// Ascending sorts lowest first; absent values come first.
	Ascending Direction = iota
	// Descending sorts highest first; absent values come last.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort. The zero value means no sort.
type SortState struct {
	Key       string
	Direction Direction
}

// IsNone reports whether no sort is active.
func (s SortState) IsNone() bool {
	return s.Key == ""
}

// Toggle returns the state after the user selects key: the same key flips
// direction, a different key starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortState{Key: key, Direction: Descending}
		}
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// String renders the state as "key:asc" or "key:desc", or "none".
func (s SortState) String() string {
	if s.IsNone() {
		return "none"
	}
	return s.Key + ":" + s.Direction.String()
}

// ParseSortState parses "key" or "key:asc|desc". An empty string means no sort.
func ParseSortState(expr string) (SortState, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return SortState{}, nil
	}

	key, dir, hasDir := strings.Cut(expr, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return SortState{}, ErrEmptySortKey
	}
	if !hasDir {
		return SortState{Key: key}, nil
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return SortState{Key: key, Direction: Ascending}, nil
	case "desc":
		return SortState{Key: key, Direction: Descending}, nil
	default:
		return SortState{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
}

// Sort returns a stably sorted copy of items. Items with equal keys keep their
// input order in both directions. An unknown or empty key returns an unsorted copy.
func Sort[T any](schema Schema[T], state SortState, items []T) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	if state.IsNone() {
		return sorted
	}
	key, ok := schema.SortKey(state.Key)
	if !ok || key.Value == nil {
		return sorted
	}

	values := make([]Value, len(sorted))
	for i, item := range sorted {
		values[i] = key.Value(item)
	}

	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := Compare(values[idx[i]], values[idx[j]])
		if state.Direction == Descending {
			return c > 0
		}
		return c < 0
	})

	out := make([]T, len(sorted))
	for i, k := range idx {
		out[i] = sorted[k]
	}
	return out
}
