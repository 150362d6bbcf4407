package domain

import (
	"fmt"
	"math"
	"slices"
)

// Table is a numeric table indexed by city name, as read from the study CSVs.
// Index and Columns preserve file order. Missing cells hold NaN.
type Table struct {
	Index   []string
	Columns []string
	Values  map[string]map[string]float64
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) Table {
	return Table{
		Columns: slices.Clone(columns),
		Values:  make(map[string]map[string]float64),
	}
}

// AddRow appends a row for city. Columns not present in row are set to NaN.
// A repeated city replaces the earlier row but keeps its position.
func (t *Table) AddRow(city string, row map[string]float64) {
	if t.Values == nil {
		t.Values = make(map[string]map[string]float64)
	}
	if _, ok := t.Values[city]; !ok {
		t.Index = append(t.Index, city)
	}
	r := make(map[string]float64, len(t.Columns))
	for _, c := range t.Columns {
		v, ok := row[c]
		if !ok {
			v = math.NaN()
		}
		r[c] = v
	}
	t.Values[city] = r
}

// HasColumn reports whether the table declares column.
func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Has reports whether the table holds a row for city.
func (t Table) Has(city string) bool {
	_, ok := t.Values[city]
	return ok
}

// Row returns a copy of the row for city.
func (t Table) Row(city string) (map[string]float64, error) {
	r, ok := t.Values[city]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	out := make(map[string]float64, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

// Lookup returns the value at (city, column).
func (t Table) Lookup(city, column string) (float64, error) {
	if !t.HasColumn(column) {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	r, ok := t.Values[city]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	return r[column], nil
}

// Column returns the non-NaN values of column in index order.
func (t Table) Column(column string) ([]float64, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	out := make([]float64, 0, len(t.Index))
	for _, city := range t.Index {
		v := t.Values[city][column]
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Rename returns a copy of the table with columns renamed according to names.
// Columns not in names keep their name.
func (t Table) Rename(names map[string]string) Table {
	out := Table{
		Index:   slices.Clone(t.Index),
		Columns: make([]string, len(t.Columns)),
		Values:  make(map[string]map[string]float64, len(t.Values)),
	}
	rename := func(c string) string {
		if n, ok := names[c]; ok {
			return n
		}
		return c
	}
	for i, c := range t.Columns {
		out.Columns[i] = rename(c)
	}
	for city, row := range t.Values {
		r := make(map[string]float64, len(row))
		for c, v := range row {
			r[rename(c)] = v
		}
		out.Values[city] = r
	}
	return out
}
