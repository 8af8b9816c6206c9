package views

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// ErrUnknownResource is returned by LookupResource for an unknown name.
var ErrUnknownResource = errors.New("unknown resource")

// ErrUnknownField is returned when an item sets a field the resource does not have.
var ErrUnknownField = errors.New("unknown field")

// ResourceConfig describes a generic CRUD resource of the data management screen.
type ResourceConfig struct {
	Name    string
	Label   string
	Path    string
	IDField string
	Fields  []Column
}

// Resources returns the managed resources in display order.
func Resources() []ResourceConfig {
	return []ResourceConfig{
		{
			Name: "materias", Label: "Subjects", Path: "academic/materias", IDField: "materia_id",
			Fields: []Column{
				{Header: "NOMBRE", Field: "nombre", Width: 30},
				{Header: "CICLO", Field: "ciclo_materia", Kind: listview.KindNumber, Width: 6},
			},
		},
		{
			Name: "aulas", Label: "Classrooms", Path: "academic/aulas", IDField: "aula_id",
			Fields: []Column{
				{Header: "NOMBRE", Field: "nombre", Width: 20},
				{Header: "CAPACIDAD", Field: "capacidad", Kind: listview.KindNumber, Width: 9},
				{Header: "SUCURSAL", Field: "sucursal_id", Kind: listview.KindNumber, Width: 8},
			},
		},
		{
			Name: "semestres", Label: "Semesters", Path: "academic/semestres", IDField: "semestre_id",
			Fields: []Column{
				{Header: "NOMBRE", Field: "nombre", Width: 20},
				{Header: "INICIO", Field: "fecha_inicio", Width: 12},
				{Header: "FIN", Field: "fecha_fin", Width: 12},
			},
		},
		{
			Name: "sucursales", Label: "Branches", Path: "academic/sucursales", IDField: "sucursal_id",
			Fields: []Column{
				{Header: "NOMBRE", Field: "nombre", Width: 24},
				{Header: "DIRECCION", Field: "direccion", Width: 36},
			},
		},
	}
}

// LookupResource returns the resource named name.
func LookupResource(name string) (ResourceConfig, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, rc := range Resources() {
		if rc.Name == key {
			return rc, nil
		}
	}
	names := make([]string, 0, 4)
	for _, rc := range Resources() {
		names = append(names, rc.Name)
	}
	return ResourceConfig{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownResource, name, strings.Join(names, ", "))
}

// View builds the list view of the resource: the ID column followed by the
// configured fields, all searchable and sortable.
func (rc ResourceConfig) View() View {
	cols := make([]Column, 0, len(rc.Fields)+1)
	cols = append(cols, Column{Header: "ID", Field: rc.IDField, Kind: listview.KindNumber, Width: 6})
	cols = append(cols, rc.Fields...)

	return View{
		Name:    rc.Name,
		Title:   rc.Label,
		IDField: rc.IDField,
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search:   listview.FieldSearch(fieldNames(rc.Fields)...),
			SortKeys: columnSortKeys(cols),
		},
	}
}

// ParseItem builds a record from field=value pairs. Numeric fields are
// converted; unknown fields are rejected.
func (rc ResourceConfig) ParseItem(pairs []string) (listview.Record, error) {
	kinds := make(map[string]listview.Kind, len(rc.Fields))
	for _, f := range rc.Fields {
		kinds[f.Field] = f.Kind
	}

	item := make(listview.Record, len(pairs))
	for _, p := range pairs {
		field, value, ok := strings.Cut(p, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid field %q: want name=value", p)
		}
		kind, known := kinds[field]
		if !known {
			return nil, fmt.Errorf("%w %q for %s (fields: %s)", ErrUnknownField, field, rc.Name,
				strings.Join(sortedFieldNames(rc.Fields), ", "))
		}
		value = strings.TrimSpace(value)
		if kind == listview.KindNumber {
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("field %q must be a number, got %q", field, value)
			}
			item[field] = n
			continue
		}
		item[field] = value
	}
	return item, nil
}

func fieldNames(cols []Column) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Field)
	}
	return out
}

func sortedFieldNames(cols []Column) []string {
	out := fieldNames(cols)
	sort.Strings(out)
	return out
}
