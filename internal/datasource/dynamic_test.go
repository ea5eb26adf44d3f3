package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"GraphAxis/internal/domain/data"
)

// fakeFetcher serves rows from a fixed table and counts calls.
type fakeFetcher struct {
	mu    sync.Mutex
	rows  []data.Row
	calls int
	fail  bool
}

func (f *fakeFetcher) FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("backend down")
	}
	var out []data.Row
	for _, r := range f.rows {
		if r.Key() >= min.Real() && r.Key() <= max.Real() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func dynamicFixture(t *testing.T) (*DynamicSource, *fakeFetcher, chan struct{}) {
	t.Helper()
	f := &fakeFetcher{
		rows: numberRows(
			[]float64{1, 101},
			[]float64{2, 102},
			[]float64{3, 103},
			[]float64{4, 104},
			[]float64{5, 105},
		),
	}
	src, err := NewDynamicSource(numberColumns(t, "x", "y"), f)
	if err != nil {
		t.Fatalf("dynamic source: %v", err)
	}
	ready := make(chan struct{}, 16)
	src.OnReady(func(min, max data.Value) { ready <- struct{}{} })
	return src, f, ready
}

func waitReady(t *testing.T, ready chan struct{}) {
	t.Helper()
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for load completion")
	}
}

func TestDynamicFirstQuerySchedulesLoad(t *testing.T) {
	src, f, ready := dynamicFixture(t)

	it, err := src.GetIterator([]string{"x", "y"}, data.NumberValue(1), data.NumberValue(5), 0)
	if err != nil {
		t.Fatalf("iterator: %v", err)
	}
	if it.HasNext() {
		t.Fatalf("nothing resident yet, iterator must be empty")
	}

	waitReady(t, ready)

	it, err = src.GetIterator([]string{"x", "y"}, data.NumberValue(1), data.NumberValue(5), 0)
	if err != nil {
		t.Fatalf("iterator: %v", err)
	}
	if it.Len() != 5 {
		t.Fatalf("expected 5 resident rows, got %d", it.Len())
	}
	if f.callCount() != 1 {
		t.Fatalf("expected one fetch, got %d", f.callCount())
	}
}

func TestDynamicResidentRangeNotRefetched(t *testing.T) {
	src, f, ready := dynamicFixture(t)

	_, _ = src.GetIterator([]string{"x"}, data.NumberValue(1), data.NumberValue(5), 0)
	waitReady(t, ready)

	// Sub-range of a resident range must not hit the backend again.
	_, _ = src.GetIterator([]string{"x"}, data.NumberValue(2), data.NumberValue(4), 0)
	if f.callCount() != 1 {
		t.Fatalf("expected no refetch of resident range, got %d calls", f.callCount())
	}
}

func TestDynamicFetchFailureReverts(t *testing.T) {
	src, f, ready := dynamicFixture(t)
	f.setFail(true)

	_, _ = src.GetIterator([]string{"x"}, data.NumberValue(1), data.NumberValue(5), 0)

	select {
	case re := <-src.Errors():
		if re.Err == nil || re.Min.Real() != 1 || re.Max.Real() != 5 {
			t.Fatalf("unexpected range error %+v", re)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for range error")
	}

	// The failed range reverted to Unknown, so the next touch retries.
	f.setFail(false)
	_, _ = src.GetIterator([]string{"x"}, data.NumberValue(1), data.NumberValue(5), 0)
	waitReady(t, ready)

	it, _ := src.GetIterator([]string{"x"}, data.NumberValue(1), data.NumberValue(5), 0)
	if it.Len() != 5 {
		t.Fatalf("expected rows after retry, got %d", it.Len())
	}
}

func TestDynamicAppendMergesIdempotently(t *testing.T) {
	src, _, ready := dynamicFixture(t)

	batch := numberRows([]float64{10, 1}, []float64{11, 2})
	if err := src.Append(batch); err != nil {
		t.Fatalf("append: %v", err)
	}
	waitReady(t, ready)
	if err := src.Append(batch); err != nil {
		t.Fatalf("re-append: %v", err)
	}
	waitReady(t, ready)

	it, _ := src.GetIterator([]string{"x"}, data.NumberValue(10), data.NumberValue(11), 0)
	if it.Len() != 2 {
		t.Fatalf("re-appending the same rows must not duplicate, got %d", it.Len())
	}
}

func TestDynamicAppendLastWriteWins(t *testing.T) {
	src, _, ready := dynamicFixture(t)

	_ = src.Append(numberRows([]float64{10, 1}))
	waitReady(t, ready)
	_ = src.Append(numberRows([]float64{10, 99}))
	waitReady(t, ready)

	it, _ := src.GetIterator([]string{"x", "y"}, data.NumberValue(10), data.NumberValue(10), 0)
	row := it.Next()
	if row == nil || row[1].Real() != 99 {
		t.Fatalf("expected last write to win, got %v", row)
	}
}

func TestDynamicAppendKeepsHolesFetchable(t *testing.T) {
	f := &fakeFetcher{rows: numberRows([]float64{50, 105})}
	src, err := NewDynamicSource(numberColumns(t, "x", "y"), f)
	if err != nil {
		t.Fatalf("dynamic source: %v", err)
	}
	ready := make(chan struct{}, 16)
	src.OnReady(func(min, max data.Value) { ready <- struct{}{} })

	if err := src.Append(numberRows([]float64{1, 101}, []float64{100, 102})); err != nil {
		t.Fatalf("append: %v", err)
	}
	waitReady(t, ready)

	// Only the appended keys are resident; the span between them must still
	// schedule a load when queried.
	_, _ = src.GetIterator([]string{"x", "y"}, data.NumberValue(10), data.NumberValue(90), 0)
	waitReady(t, ready)
	if f.callCount() != 1 {
		t.Fatalf("expected a fetch for the hole between appended keys, got %d calls", f.callCount())
	}

	it, _ := src.GetIterator([]string{"x", "y"}, data.NumberValue(10), data.NumberValue(90), 0)
	if it.Len() != 1 {
		t.Fatalf("expected the backend row inside the hole, got %d rows", it.Len())
	}
}

func TestDynamicAppendRejectsMalformedBatch(t *testing.T) {
	src, _, _ := dynamicFixture(t)

	err := src.Append([]data.Row{{data.NumberValue(1)}}) // wrong width
	if err == nil {
		t.Fatalf("expected error for batch with no valid rows")
	}
}

func TestDynamicBoundsGrow(t *testing.T) {
	src, _, ready := dynamicFixture(t)

	if _, _, err := src.GetBounds("x"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected no data before any load, got %v", err)
	}

	_, _ = src.GetIterator([]string{"x"}, data.NumberValue(1), data.NumberValue(5), 0)
	waitReady(t, ready)

	lo, hi, err := src.GetBounds("x")
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if lo.Real() != 1 || hi.Real() != 5 {
		t.Fatalf("expected [1,5], got [%v,%v]", lo.Real(), hi.Real())
	}
}

func TestDynamicNilFetcher(t *testing.T) {
	_, err := NewDynamicSource(numberColumns(t, "x"), nil)
	var cfgErr *data.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
