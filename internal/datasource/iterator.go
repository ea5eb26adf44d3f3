package datasource

import "GraphAxis/internal/domain/data"

// Iterator steps forward through a snapshot of projected rows. It is
// single-pass; call GetIterator again for a fresh pass over current data.
type Iterator struct {
	rows []data.Row
	pos  int
}

func newIterator(rows []data.Row) *Iterator {
	return &Iterator{rows: rows}
}

// HasNext reports whether Next would return a row.
func (it *Iterator) HasNext() bool {
	return it.pos < len(it.rows)
}

// Next returns the next row, or nil once exhausted.
func (it *Iterator) Next() data.Row {
	if it.pos >= len(it.rows) {
		return nil
	}
	r := it.rows[it.pos]
	it.pos++
	return r
}

// Len returns the total number of rows in the snapshot.
func (it *Iterator) Len() int { return len(it.rows) }
