// Package datasource stores and serves the ordered rows plotted along an
// axis. Every source shares one access model: rows sorted by column 0, a
// windowed iterator keyed on that column, and metadata per column. A static
// source holds all of its rows from construction; a dynamic source fills
// its cache on demand from a RowFetcher and announces newly resident ranges
// through ready handlers.
package datasource

import (
	"fmt"
	"sort"

	"GraphAxis/internal/domain/data"
)

// ReadyHandler is invoked with the bounds of a newly resident column-0
// range once per completed asynchronous load.
type ReadyHandler func(min, max data.Value)

// Source is the read side shared by static and dynamic row stores.
type Source interface {
	// Columns returns the immutable column metadata, schema order.
	Columns() []*data.Variable

	// GetIterator returns a forward-only iterator over the rows whose
	// column-0 value lies in [min, max], widened by up to buffer resident
	// rows beyond each bound, projected to the requested columns in the
	// requested order. The iterator is a snapshot: rows arriving later do
	// not grow it. Dynamic sources additionally schedule loads for any
	// non-resident sub-range touched by the query; the call never blocks.
	GetIterator(columnIDs []string, min, max data.Value, buffer int) (*Iterator, error)

	// OnReady registers a handler for load-completion notifications.
	// Static sources never fire it.
	OnReady(h ReadyHandler)

	// GetBounds returns the resident [min, max] of one column. For
	// dynamic sources the result is provisional until loads settle.
	GetBounds(columnID string) (data.Value, data.Value, error)
}

// ErrNoData is wrapped into GetBounds errors when a column resolves but no
// rows are resident yet.
var ErrNoData = fmt.Errorf("datasource: no resident rows")

// schema is the frozen column layout shared by source implementations.
type schema struct {
	columns []*data.Variable
	byID    map[string]int
}

func newSchema(columns []*data.Variable) (*schema, error) {
	if len(columns) == 0 {
		return nil, &data.ConfigurationError{Reason: "source needs at least one column"}
	}
	byID := make(map[string]int, len(columns))
	for i, v := range columns {
		if v == nil || v.ID() == "" {
			return nil, &data.ConfigurationError{Reason: fmt.Sprintf("column %d has no id", i)}
		}
		if _, dup := byID[v.ID()]; dup {
			return nil, &data.ConfigurationError{Reason: fmt.Sprintf("duplicate column id %q", v.ID())}
		}
		byID[v.ID()] = i
	}
	return &schema{columns: columns, byID: byID}, nil
}

// resolve maps output column ids to schema indices. An unresolved id is a
// query-time configuration error.
func (s *schema) resolve(ids []string) ([]int, error) {
	idx := make([]int, len(ids))
	for i, id := range ids {
		j, ok := s.byID[id]
		if !ok {
			return nil, &data.ConfigurationError{Reason: fmt.Sprintf("unresolved column id %q", id)}
		}
		idx[i] = j
	}
	return idx, nil
}

func (s *schema) keyKind() data.Kind { return s.columns[0].Kind() }

// checkRow validates width and per-column kinds against the schema.
func (s *schema) checkRow(r data.Row) error {
	if len(r) != len(s.columns) {
		return &data.ConfigurationError{Reason: fmt.Sprintf("row has %d values, schema has %d columns", len(r), len(s.columns))}
	}
	for i, v := range r {
		if v == nil || v.Kind() != s.columns[i].Kind() {
			return &data.ConfigurationError{Reason: fmt.Sprintf("column %q expects %s values", s.columns[i].ID(), s.columns[i].Kind())}
		}
	}
	return nil
}

// checkRange verifies min/max are comparable with the key column.
func (s *schema) checkRange(min, max data.Value) error {
	if min == nil || max == nil {
		return &data.ConfigurationError{Reason: "range bounds are required"}
	}
	if min.Kind() != s.keyKind() || max.Kind() != s.keyKind() {
		return fmt.Errorf("range bounds of kind %s on a %s axis: %w", min.Kind(), s.keyKind(), data.ErrTypeMismatch)
	}
	return nil
}

// window returns the index range [lo, hi) of rows with column 0 in
// [min, max], widened by up to buffer rows on each side and clipped at the
// ends of the data. It never fabricates or skips rows.
func window(rows []data.Row, min, max data.Value, buffer int) (int, int) {
	lo := sort.Search(len(rows), func(i int) bool { return rows[i].Key() >= min.Real() })
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Key() > max.Real() })
	if buffer > 0 {
		lo -= buffer
		hi += buffer
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(rows) {
		hi = len(rows)
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// project copies rows[lo:hi] into a snapshot holding only the columns in
// cols, in that order.
func project(rows []data.Row, lo, hi int, cols []int) []data.Row {
	out := make([]data.Row, 0, hi-lo)
	for _, r := range rows[lo:hi] {
		p := make(data.Row, len(cols))
		for i, c := range cols {
			p[i] = r[c]
		}
		out = append(out, p)
	}
	return out
}

// columnBounds scans resident rows for the min/max of one column.
func columnBounds(rows []data.Row, col int) (data.Value, data.Value, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoData
	}
	lo, hi := rows[0][col], rows[0][col]
	for _, r := range rows[1:] {
		if r[col].Real() < lo.Real() {
			lo = r[col]
		}
		if r[col].Real() > hi.Real() {
			hi = r[col]
		}
	}
	return lo, hi, nil
}
