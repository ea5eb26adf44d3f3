package repository

import (
	"context"

	"GraphAxis/internal/domain/data"
)

// RowFetcher loads rows for a column-0 sub-range from a backing store.
// Results must arrive sorted by column 0; the caller owns merging them
// into its cache.
type RowFetcher interface {
	FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error)
}

// RowStream is a live feed of appended rows for one dataset.
type RowStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan data.Row, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational measurements for the data layer.
type Metrics interface {
	RecordFetch(status string, seconds float64)
	RecordResidentRows(n int)
	RecordError(kind string)
}

// NopMetrics discards all measurements; useful in tests and as a default.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(string, float64) {}
func (NopMetrics) RecordResidentRows(int)      {}
func (NopMetrics) RecordError(string)          {}
