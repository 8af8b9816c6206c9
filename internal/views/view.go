package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// ErrUnknownView is returned by Lookup for a name with no view.
var ErrUnknownView = errors.New("unknown view")

// emptyCell is shown for missing or null fields.
const emptyCell = "-"

// Column is one table column.
type Column struct {
	Header string
	Field  string
	Kind   listview.Kind
	Width  int
	// Format overrides the default rendering of Field.
	Format func(listview.Record) string
}

// Value renders the column for r.
func (c Column) Value(r listview.Record) string {
	if c.Format != nil {
		if s := c.Format(r); s != "" {
			return s
		}
		return emptyCell
	}
	s, ok := r.String(c.Field)
	if !ok || strings.TrimSpace(s) == "" {
		return emptyCell
	}
	return s
}

// View describes one list screen.
type View struct {
	Name    string
	Title   string
	IDField string
	Columns []Column
	Schema  listview.Schema[listview.Record]
}

// Headers returns the column headers.
func (v View) Headers() []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Header
	}
	return out
}

// Row renders r as one cell per column.
func (v View) Row(r listview.Record) []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Value(r)
	}
	return out
}

// ID returns the record identifier, or "" when the view has no ID field.
func (v View) ID(r listview.Record) string {
	if v.IDField == "" {
		return ""
	}
	s, _ := r.String(v.IDField)
	return s
}

// Lookup returns the view registered under name.
func Lookup(name string) (View, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := registry()[key]; ok {
		return v, nil
	}
	return View{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownView, name, strings.Join(Names(), ", "))
}

// Names returns every registered view name, sorted.
func Names() []string {
	reg := registry()
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func registry() map[string]View {
	reg := map[string]View{
		Students().Name:     Students(),
		Roles().Name:        Roles(),
		ActivityLogs().Name: ActivityLogs(),
		AuditLogs().Name:    AuditLogs(),

		AttendanceByCourse().Name: AttendanceByCourse(),
		CriticalAttendance().Name: CriticalAttendance(),
		RevenueTrends().Name:      RevenueTrends(),
		Delinquents().Name:        Delinquents(),
	}
	for _, rc := range Resources() {
		v := rc.View()
		reg[v.Name] = v
	}
	return reg
}

// columnSortKeys returns one sort key per column, named after its field.
func columnSortKeys(cols []Column) []listview.SortKey[listview.Record] {
	keys := make([]listview.SortKey[listview.Record], 0, len(cols))
	for _, c := range cols {
		if c.Field == "" {
			continue
		}
		keys = append(keys, listview.FieldSortKey(c.Field, c.Field, c.Kind))
	}
	return keys
}

// fieldCategory filters on the raw value of a field.
func fieldCategory(name, field string) listview.Category[listview.Record] {
	return listview.Category[listview.Record]{
		Name: name,
		Derive: func(r listview.Record) (string, bool) {
			s, ok := r.String(field)
			if !ok || strings.TrimSpace(s) == "" {
				return "", false
			}
			return strings.TrimSpace(s), true
		},
	}
}
