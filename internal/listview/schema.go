package listview

import (
	"math"
	"sort"
	"strings"
)

// Kind is the declared type of a sort key.
type Kind int

const (
	// KindString compares values lexically.
	KindString Kind = iota
	// KindNumber compares values numerically; numeric strings are coerced.
	KindNumber
	// KindBool orders false before true.
	KindBool
)

// Value is a comparable sort value. The zero Value is absent.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Bool    bool
	Present bool
}

// StringValue returns a present string value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s, Present: true}
}

// NumberValue returns a present numeric value. NaN and infinities are absent.
func NumberValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}
	}
	return Value{Kind: KindNumber, Num: n, Present: true}
}

// BoolValue returns a present boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b, Present: true}
}

// Compare orders two values: absent values sort lowest, values of different kinds
// order by kind, and values of the same kind use their natural ordering.
func Compare(a, b Value) int {
	switch {
	case !a.Present && !b.Present:
		return 0
	case !a.Present:
		return -1
	case !b.Present:
		return 1
	case a.Kind != b.Kind:
		return int(a.Kind) - int(b.Kind)
	}

	switch a.Kind {
	case KindNumber:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(a.Str, b.Str)
	}
}

// SortKey names a sortable, possibly derived, value of T.
type SortKey[T any] struct {
	Name  string
	Value func(item T) Value
}

// Category derives a categorical value of T that can be filtered on.
type Category[T any] struct {
	Name string

	// Derive returns the item's category; false means the item has none.
	Derive func(item T) (string, bool)

	// Normalize maps a selected filter value onto the derived vocabulary
	// (for example a translated label). Nil means identity.
	Normalize func(selected string) string
}

// Schema is the per-view configuration of a controller: which fields are
// searchable, which categories exist and which keys can be sorted on.
type Schema[T any] struct {
	Search     func(item T) []string
	Categories []Category[T]
	SortKeys   []SortKey[T]
}

// Category looks up a category by name.
func (s Schema[T]) Category(name string) (Category[T], bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category[T]{}, false
}

// SortKey looks up a sort key by name.
func (s Schema[T]) SortKey(name string) (SortKey[T], bool) {
	for _, k := range s.SortKeys {
		if k.Name == name {
			return k, true
		}
	}
	return SortKey[T]{}, false
}

// SortKeyNames returns the sort key names in declaration order.
func (s Schema[T]) SortKeyNames() []string {
	names := make([]string, 0, len(s.SortKeys))
	for _, k := range s.SortKeys {
		names = append(names, k.Name)
	}
	return names
}

// CategoryNames returns the category names sorted alphabetically.
func (s Schema[T]) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
