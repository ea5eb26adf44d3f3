package data

// Row is one ordered tuple of values aligned to a source's column schema.
// Column 0 is the key column: rows are ordered by it and all range queries
// compare against it.
type Row []Value

// Key returns the column-0 real projection, or NaN-free 0 for an empty row.
func (r Row) Key() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[0].Real()
}

// Reals returns the real projections of every value in the row.
func (r Row) Reals() []float64 {
	out := make([]float64, len(r))
	for i, v := range r {
		out[i] = v.Real()
	}
	return out
}

// RowFromReals rebuilds a row from real projections using the kinds of the
// given columns. Returns nil when the widths disagree.
func RowFromReals(columns []*Variable, reals []float64) Row {
	if len(reals) != len(columns) {
		return nil
	}
	row := make(Row, len(reals))
	for i, f := range reals {
		row[i] = FromReal(columns[i].Kind(), f)
	}
	return row
}
