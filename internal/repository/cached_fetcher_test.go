package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"GraphAxis/internal/domain/data"
	icache "GraphAxis/internal/service/cache"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls int
}

func (f *countingFetcher) FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []data.Row{
		{data.NumberValue(1), data.NumberValue(101)},
		{data.NumberValue(2), data.NumberValue(102)},
	}, nil
}

func TestCachedFetcherMemoizes(t *testing.T) {
	cols := []*data.Variable{
		data.NewVariable("x", 0, data.Number),
		data.NewVariable("y", 1, data.Number),
	}
	inner := &countingFetcher{}
	f := NewCachedFetcher(inner, icache.NewMemoryCache(time.Minute), time.Minute, "test", cols)

	ctx := context.Background()
	first, err := f.FetchRange(ctx, data.NumberValue(0), data.NumberValue(10))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second, err := f.FetchRange(ctx, data.NumberValue(0), data.NumberValue(10))
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected one backend call, got %d", inner.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cache must replay the same rows: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Fatalf("row %d key mismatch: %v vs %v", i, first[i].Key(), second[i].Key())
		}
	}
}

func TestCachedFetcherDistinguishesRanges(t *testing.T) {
	cols := []*data.Variable{data.NewVariable("x", 0, data.Number)}
	inner := &countingFetcher{}
	f := NewCachedFetcher(inner, icache.NewMemoryCache(time.Minute), time.Minute, "test", cols)

	ctx := context.Background()
	_, _ = f.FetchRange(ctx, data.NumberValue(0), data.NumberValue(10))
	_, _ = f.FetchRange(ctx, data.NumberValue(0), data.NumberValue(20))

	if inner.calls != 2 {
		t.Fatalf("different ranges must miss, got %d calls", inner.calls)
	}
}
