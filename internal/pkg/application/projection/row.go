package projection

import (
	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/application/schema"
)

type Row []flatten.Value

// ProjectRow returns one cell per schema attribute, in schema order. Attributes that
// are missing from the record are returned as null cells, and attributes that are not
// in the schema are dropped.
func ProjectRow(rec flatten.Record, s schema.Schema) Row {
	row := make(Row, len(s))
	for idx, name := range s {
		row[idx] = rec.Get(name)
	}
	return row
}

// Fit pads the row with null cells or truncates it so that it is exactly width cells wide
func Fit(row Row, width int) Row {
	if width < 0 {
		width = 0
	}

	fitted := make(Row, width)
	copy(fitted, row)

	return fitted
}

// Prepend returns a new row with the values placed before the cells of row
func Prepend(row Row, values ...flatten.Value) Row {
	r := make(Row, 0, len(values)+len(row))
	r = append(r, values...)
	return append(r, row...)
}

// Strings returns the cells of the row, with null cells as empty strings
func (r Row) Strings() []string {
	s := make([]string, len(r))
	for idx, v := range r {
		s[idx] = v.String()
	}
	return s
}
