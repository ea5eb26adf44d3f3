package datasource

import (
	"sort"

	"GraphAxis/internal/domain/data"
)

// StaticSource holds all of its rows from construction on. It never loads
// anything, so OnReady handlers are accepted and never called.
type StaticSource struct {
	sch  *schema
	rows []data.Row
}

// NewStaticSource validates rows against the column schema and sorts them
// by column 0. Duplicate column ids or malformed rows are fatal.
func NewStaticSource(columns []*data.Variable, rows []data.Row) (*StaticSource, error) {
	sch, err := newSchema(columns)
	if err != nil {
		return nil, err
	}
	sorted := make([]data.Row, len(rows))
	copy(sorted, rows)
	for _, r := range sorted {
		if err := sch.checkRow(r); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })
	return &StaticSource{sch: sch, rows: sorted}, nil
}

func (s *StaticSource) Columns() []*data.Variable { return s.sch.columns }

func (s *StaticSource) GetIterator(columnIDs []string, min, max data.Value, buffer int) (*Iterator, error) {
	cols, err := s.sch.resolve(columnIDs)
	if err != nil {
		return nil, err
	}
	if err := s.sch.checkRange(min, max); err != nil {
		return nil, err
	}
	if buffer < 0 {
		buffer = 0
	}
	lo, hi := window(s.rows, min, max, buffer)
	return newIterator(project(s.rows, lo, hi, cols)), nil
}

// OnReady is a no-op: static data never changes.
func (s *StaticSource) OnReady(ReadyHandler) {}

func (s *StaticSource) GetBounds(columnID string) (data.Value, data.Value, error) {
	col, ok := s.sch.byID[columnID]
	if !ok {
		return nil, nil, data.ErrColumnNotFound
	}
	return columnBounds(s.rows, col)
}
