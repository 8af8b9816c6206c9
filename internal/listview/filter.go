package listview

import (
	"maps"
	"strings"

	"golang.org/x/text/cases"
)

// AllValues is the category filter value that disables a category filter.
const AllValues = "all"

// FilterState is the user's client-side refinement of the fetched page.
type FilterState struct {
	// SearchText is matched case-insensitively against the searchable fields.
	SearchText string

	// Categories maps a category name to its selected value, or AllValues.
	Categories map[string]string
}

// IsZero reports whether the filter lets every record through.
func (f FilterState) IsZero() bool {
	return strings.TrimSpace(f.SearchText) == "" && len(f.Active()) == 0
}

// Active returns the category filters whose value is not AllValues.
func (f FilterState) Active() map[string]string {
	active := make(map[string]string, len(f.Categories))
	for name, value := range f.Categories {
		if value == "" || strings.EqualFold(value, AllValues) {
			continue
		}
		active[name] = value
	}
	return active
}

// Clone returns a copy that shares no map with f.
func (f FilterState) Clone() FilterState {
	return FilterState{SearchText: f.SearchText, Categories: maps.Clone(f.Categories)}
}

// Matches reports whether item passes the filter under schema.
// It has no side effects: the same inputs always yield the same result.
func Matches[T any](schema Schema[T], f FilterState, item T) bool {
	if !matchesSearch(schema, f.SearchText, item) {
		return false
	}

	for name, selected := range f.Active() {
		category, ok := schema.Category(name)
		if !ok || category.Derive == nil {
			continue
		}
		derived, ok := category.Derive(item)
		if !ok {
			return false
		}
		if category.Normalize != nil {
			selected = category.Normalize(selected)
		}
		if !strings.EqualFold(derived, selected) {
			return false
		}
	}

	return true
}

// Filter returns the items that pass f, preserving order. The input is not modified.
func Filter[T any](schema Schema[T], f FilterState, items []T) []T {
	if f.IsZero() {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(schema, f, item) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch[T any](schema Schema[T], text string, item T) bool {
	query := strings.TrimSpace(text)
	if query == "" {
		return true
	}
	if schema.Search == nil {
		return false
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, field := range schema.Search(item) {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}
