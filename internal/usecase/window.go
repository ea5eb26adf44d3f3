package usecase

import (
	"fmt"

	"GraphAxis/internal/datasource"
	"GraphAxis/internal/domain/data"
)

// WindowUseCase answers windowed row queries against one data source.
type WindowUseCase struct {
	source datasource.Source
}

func NewWindowUseCase(source datasource.Source) *WindowUseCase {
	return &WindowUseCase{source: source}
}

type GetWindowParams struct {
	Columns []string
	Min     string
	Max     string
	Buffer  int
}

// WindowRow is one projected row; cells matching a column's missing-value
// predicate are nil.
type WindowRow []*float64

type GetWindowResult struct {
	Columns []string    `json:"columns"`
	Min     string      `json:"min"`
	Max     string      `json:"max"`
	Count   int         `json:"count"`
	Rows    []WindowRow `json:"rows"`
}

const maxWindowBuffer = 1000

func (uc *WindowUseCase) GetWindow(p GetWindowParams) (*GetWindowResult, error) {
	if len(p.Columns) == 0 {
		return nil, fmt.Errorf("columns required")
	}
	keyKind := uc.source.Columns()[0].Kind()
	min, ok := data.Parse(keyKind, p.Min)
	if !ok {
		return nil, fmt.Errorf("bad min %q for %s axis: %w", p.Min, keyKind, data.ErrTypeMismatch)
	}
	max, ok := data.Parse(keyKind, p.Max)
	if !ok {
		return nil, fmt.Errorf("bad max %q for %s axis: %w", p.Max, keyKind, data.ErrTypeMismatch)
	}
	c, err := min.Compare(max)
	if err != nil {
		return nil, fmt.Errorf("compare bounds: %w", err)
	}
	if c > 0 {
		return nil, &data.ConfigurationError{Reason: "min must be <= max"}
	}
	if p.Buffer < 0 {
		p.Buffer = 0
	}
	if p.Buffer > maxWindowBuffer {
		p.Buffer = maxWindowBuffer
	}

	it, err := uc.source.GetIterator(p.Columns, min, max, p.Buffer)
	if err != nil {
		return nil, fmt.Errorf("get iterator: %w", err)
	}

	vars := make([]*data.Variable, len(p.Columns))
	byID := make(map[string]*data.Variable, len(uc.source.Columns()))
	for _, v := range uc.source.Columns() {
		byID[v.ID()] = v
	}
	for i, id := range p.Columns {
		vars[i] = byID[id]
	}

	rows := make([]WindowRow, 0, it.Len())
	for it.HasNext() {
		r := it.Next()
		out := make(WindowRow, len(r))
		for i, v := range r {
			if vars[i] != nil && vars[i].IsMissing(v) {
				continue
			}
			real := v.Real()
			out[i] = &real
		}
		rows = append(rows, out)
	}

	return &GetWindowResult{
		Columns: p.Columns,
		Min:     min.String(),
		Max:     max.String(),
		Count:   len(rows),
		Rows:    rows,
	}, nil
}

// GetBounds reports the resident extent of one column.
func (uc *WindowUseCase) GetBounds(columnID string) (string, string, error) {
	lo, hi, err := uc.source.GetBounds(columnID)
	if err != nil {
		return "", "", fmt.Errorf("get bounds: %w", err)
	}
	return lo.String(), hi.String(), nil
}
