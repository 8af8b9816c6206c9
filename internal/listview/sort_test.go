package listview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradeSchema() Schema[Record] {
	return Schema[Record]{
		SortKeys: []SortKey[Record]{
			FieldSortKey("grade", "grade", KindNumber),
			FieldSortKey("email", "email", KindString),
			CompositeSortKey("name", "first_name", "last_name"),
		},
	}
}

func grades(records []Record) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r["grade"]
	}
	return out
}

func TestSort_GradeScenario(t *testing.T) {
	records := []Record{{"grade": 9.0}, {"grade": 15.0}, {"grade": 12.0}}

	asc := Sort(gradeSchema(), SortState{Key: "grade"}, records)
	assert.Equal(t, []any{9.0, 12.0, 15.0}, grades(asc))

	desc := Sort(gradeSchema(), SortState{Key: "grade", Direction: Descending}, records)
	assert.Equal(t, []any{15.0, 12.0, 9.0}, grades(desc))

	assert.Equal(t, []any{9.0, 15.0, 12.0}, grades(records), "input must not be modified")
}

func TestSort_Stable(t *testing.T) {
	records := []Record{
		{"id": 1, "grade": 12.0},
		{"id": 2, "grade": 9.0},
		{"id": 3, "grade": 12.0},
		{"id": 4, "grade": 9.0},
	}

	ids := func(rs []Record) []any {
		out := make([]any, len(rs))
		for i, r := range rs {
			out[i] = r["id"]
		}
		return out
	}

	asc := Sort(gradeSchema(), SortState{Key: "grade"}, records)
	assert.Equal(t, []any{2, 4, 1, 3}, ids(asc))

	desc := Sort(gradeSchema(), SortState{Key: "grade", Direction: Descending}, records)
	assert.Equal(t, []any{1, 3, 2, 4}, ids(desc))
}

func TestSort_ToggleRoundTrip(t *testing.T) {
	records := []Record{{"grade": 12.0}, {"grade": 9.0}, {"grade": 15.0}, {"grade": 9.0}}
	schema := gradeSchema()

	state := SortState{}.Toggle("grade")
	require.Equal(t, Ascending, state.Direction)
	first := Sort(schema, state, records)

	state = state.Toggle("grade")
	require.Equal(t, Descending, state.Direction)

	state = state.Toggle("grade")
	require.Equal(t, Ascending, state.Direction)
	assert.Equal(t, first, Sort(schema, state, records))
}

func TestSortState_Toggle(t *testing.T) {
	s := SortState{Key: "grade", Direction: Descending}
	assert.Equal(t, SortState{Key: "email", Direction: Ascending}, s.Toggle("email"))
	assert.Equal(t, SortState{Key: "grade", Direction: Ascending}, s.Toggle("grade"))
	assert.Equal(t, "grade:desc", s.String())
	assert.Equal(t, "none", SortState{}.String())
}

func TestSort_MissingValuesSortLowest(t *testing.T) {
	records := []Record{{"grade": 12.0}, {"email": "x"}, {"grade": nil}, {"grade": 9.0}}

	asc := Sort(gradeSchema(), SortState{Key: "grade"}, records)
	assert.Equal(t, []any{nil, nil, 9.0, 12.0}, grades(asc))

	desc := Sort(gradeSchema(), SortState{Key: "grade", Direction: Descending}, records)
	assert.Equal(t, []any{12.0, 9.0, nil, nil}, grades(desc))
}

func TestSort_NumericStringsAreCoerced(t *testing.T) {
	records := []Record{{"grade": "12.5"}, {"grade": 9.0}, {"grade": "10"}, {"grade": "n/a"}}

	asc := Sort(gradeSchema(), SortState{Key: "grade"}, records)
	assert.Equal(t, []any{"n/a", 9.0, "10", "12.5"}, grades(asc))
}

func TestSort_NonFiniteNumbersSortAsMissing(t *testing.T) {
	records := []Record{
		{"grade": 15.0}, {"grade": 12.0}, {"grade": "NaN"},
		{"grade": 9.0}, {"grade": 18.0}, {"grade": 3.0}, {"grade": "Inf"},
	}

	asc := Sort(gradeSchema(), SortState{Key: "grade"}, records)
	assert.Equal(t, []any{"NaN", "Inf", 3.0, 9.0, 12.0, 15.0, 18.0}, grades(asc))

	desc := Sort(gradeSchema(), SortState{Key: "grade", Direction: Descending}, records)
	assert.Equal(t, []any{18.0, 15.0, 12.0, 9.0, 3.0, "NaN", "Inf"}, grades(desc))
}

func TestSort_CompositeKey(t *testing.T) {
	records := []Record{
		{"first_name": "Maria", "last_name": "Lopez"},
		{"first_name": "Ana", "last_name": "Zapata"},
		{"first_name": "Ana", "last_name": "Garcia"},
	}

	sorted := Sort(gradeSchema(), SortState{Key: "name"}, records)
	names := make([]string, len(sorted))
	for i, r := range sorted {
		names[i] = FullName(r)
	}
	assert.Equal(t, []string{"Ana Garcia", "Ana Zapata", "Maria Lopez"}, names)
}

func TestSort_UnknownKeyReturnsCopy(t *testing.T) {
	records := []Record{{"grade": 12.0}, {"grade": 9.0}}
	got := Sort(gradeSchema(), SortState{Key: "nope"}, records)
	assert.Equal(t, records, got)
}

func TestParseSortState(t *testing.T) {
	tests := []struct {
		expr    string
		want    SortState
		wantErr error
	}{
		{"", SortState{}, nil},
		{"grade", SortState{Key: "grade"}, nil},
		{"grade:desc", SortState{Key: "grade", Direction: Descending}, nil},
		{" grade : ASC ", SortState{Key: "grade"}, nil},
		{":asc", SortState{}, ErrEmptySortKey},
		{"grade:up", SortState{}, ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSortState(tt.expr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(Value{}, Value{}))
	assert.Negative(t, Compare(Value{}, NumberValue(0)))
	assert.Positive(t, Compare(StringValue(""), Value{}))
	assert.Negative(t, Compare(BoolValue(false), BoolValue(true)))
	assert.Negative(t, Compare(StringValue("a"), StringValue("b")))
	assert.Negative(t, Compare(StringValue("z"), NumberValue(1)), "kinds order string < number")
	assert.False(t, NumberValue(math.NaN()).Present)
	assert.Equal(t, 0, Compare(NumberValue(math.Inf(1)), Value{}))
}
