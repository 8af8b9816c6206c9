package listview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Number(t *testing.T) {
	r := Record{
		"float":  12.5,
		"int":    7,
		"json":   json.Number("3.25"),
		"string": " 14 ",
		"text":   "n/a",
		"nan":    "NaN",
		"inf":    "-Inf",
		"null":   nil,
	}

	tests := []struct {
		field  string
		want   float64
		wantOK bool
	}{
		{"float", 12.5, true},
		{"int", 7, true},
		{"json", 3.25, true},
		{"string", 14, true},
		{"text", 0, false},
		{"nan", 0, false},
		{"inf", 0, false},
		{"null", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.Number(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRecord_StringAndBool(t *testing.T) {
	r := Record{"grade": 12.0, "active": "TRUE", "flag": false, "name": nil}

	s, ok := r.String("grade")
	assert.True(t, ok)
	assert.Equal(t, "12", s)

	_, ok = r.String("name")
	assert.False(t, ok)

	b, ok := r.Bool("active")
	assert.True(t, ok)
	assert.True(t, b)

	b, ok = r.Bool("flag")
	assert.True(t, ok)
	assert.False(t, b)

	_, ok = r.Bool("grade")
	assert.False(t, ok)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ana Garcia", FullName(Record{"first_name": " Ana ", "last_name": "Garcia"}))
	assert.Equal(t, "Ana", FullName(Record{"first_name": "Ana"}))
	assert.Equal(t, "Admin User", FullName(Record{"name": "Admin User"}))
	assert.Empty(t, FullName(Record{}))
}

func TestRecordValue(t *testing.T) {
	r := Record{"age": "21", "email": "a@b.c", "active": true}

	assert.Equal(t, NumberValue(21), RecordValue(r, "age", KindNumber))
	assert.Equal(t, StringValue("a@b.c"), RecordValue(r, "email", KindString))
	assert.Equal(t, BoolValue(true), RecordValue(r, "active", KindBool))
	assert.Equal(t, Value{}, RecordValue(r, "email", KindNumber))
}
