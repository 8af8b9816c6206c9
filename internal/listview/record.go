package listview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one row of any paginated resource as decoded from the backend.
// Values are strings, numbers, booleans or nil; the shape varies per resource.
type Record map[string]any

// Raw returns the raw field value and whether it is present and non-null.
func (r Record) Raw(field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the field rendered as text.
// The second result is false when the field is missing or null.
func (r Record) String(field string) (string, bool) {
	v, ok := r.Raw(field)
	if !ok {
		return "", false
	}
	return formatScalar(v), true
}

// Number returns the field as a float64, coercing numeric strings.
// The second result is false when the field is missing, null or not numeric.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r.Raw(field)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// Bool returns the field as a boolean.
// The strings "true" and "false" are accepted in any case.
func (r Record) Bool(field string) (bool, bool) {
	v, ok := r.Raw(field)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// FullName builds the display name of a person record from first_name and
// last_name, falling back to name when neither is set.
func FullName(r Record) string {
	first, _ := r.String("first_name")
	last, _ := r.String("last_name")
	full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if full != "" {
		return full
	}
	name, _ := r.String("name")
	return strings.TrimSpace(name)
}

// FieldSearch returns a search extractor over the given record fields.
// Missing fields are skipped.
func FieldSearch(fields ...string) func(Record) []string {
	return func(r Record) []string {
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			if s, ok := r.String(f); ok {
				out = append(out, s)
			}
		}
		return out
	}
}

// FieldSortKey returns a sort key reading a single record field as the given kind.
func FieldSortKey(name, field string, kind Kind) SortKey[Record] {
	return SortKey[Record]{
		Name: name,
		Value: func(r Record) Value {
			return RecordValue(r, field, kind)
		},
	}
}

// CompositeSortKey returns a sort key over the space-joined, trimmed values of
// several string fields. Both sides of a comparison derive the key identically.
func CompositeSortKey(name string, fields ...string) SortKey[Record] {
	return SortKey[Record]{
		Name: name,
		Value: func(r Record) Value {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				if s, ok := r.String(f); ok && strings.TrimSpace(s) != "" {
					parts = append(parts, strings.TrimSpace(s))
				}
			}
			if len(parts) == 0 {
				return Value{}
			}
			return StringValue(strings.Join(parts, " "))
		},
	}
}

// RecordValue reads a record field as a sort value of the declared kind.
// Values that cannot be represented as that kind are absent.
func RecordValue(r Record, field string, kind Kind) Value {
	switch kind {
	case KindNumber:
		if n, ok := r.Number(field); ok {
			return NumberValue(n)
		}
	case KindBool:
		if b, ok := r.Bool(field); ok {
			return BoolValue(b)
		}
	case KindString:
		if s, ok := r.String(field); ok {
			return StringValue(s)
		}
	}
	return Value{}
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	// NaN and infinities have no consistent order and count as absent.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
