package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"GraphAxis/internal/domain/data"
	domrepo "GraphAxis/internal/domain/repository"
	"GraphAxis/internal/service/ratelimit"
	applogger "GraphAxis/pkg/logger"
)

// RangeError reports a failed asynchronous load for a column-0 sub-range.
// The range has reverted to Unknown and is retried on the next query that
// touches it.
type RangeError struct {
	Min, Max data.Value
	Err      error
}

// DynamicSource fills its row cache on demand. Each column-0 sub-range is
// Unknown until a query touches it, Pending while a load is in flight, and
// Resident once the load has merged. Queries see only resident rows and
// never block on loads.
type DynamicSource struct {
	sch     *schema
	fetcher domrepo.RowFetcher
	metrics domrepo.Metrics
	l       *applogger.Logger
	limiter *ratelimit.Limiter
	timeout time.Duration

	mu       sync.Mutex
	rows     []data.Row
	resident intervalSet
	pending  intervalSet
	handlers []ReadyHandler
	errs     chan RangeError
}

// Option configures a DynamicSource.
type Option func(*DynamicSource)

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(d *DynamicSource) { d.l = l }
}

// WithMetrics injects a metrics recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(d *DynamicSource) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithFetchTimeout bounds each backend load.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(d *DynamicSource) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithRateLimiter throttles load dispatch. A throttled sub-range stays
// Unknown and is retried on the next query that touches it.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(d *DynamicSource) { d.limiter = l }
}

// WithErrorBuffer sizes the failed-load channel.
func WithErrorBuffer(n int) Option {
	return func(d *DynamicSource) {
		if n > 0 {
			d.errs = make(chan RangeError, n)
		}
	}
}

// NewDynamicSource creates an empty source that loads rows through fetcher.
func NewDynamicSource(columns []*data.Variable, fetcher domrepo.RowFetcher, opts ...Option) (*DynamicSource, error) {
	sch, err := newSchema(columns)
	if err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, &data.ConfigurationError{Reason: "dynamic source needs a row fetcher"}
	}
	d := &DynamicSource{
		sch:     sch,
		fetcher: fetcher,
		metrics: domrepo.NopMetrics{},
		timeout: 30 * time.Second,
		errs:    make(chan RangeError, 16),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *DynamicSource) Columns() []*data.Variable { return d.sch.columns }

// GetIterator snapshots the resident window and schedules one load per
// Unknown sub-range of [min, max]. Overlapping in-flight loads are
// coalesced through the Pending partition.
func (d *DynamicSource) GetIterator(columnIDs []string, min, max data.Value, buffer int) (*Iterator, error) {
	cols, err := d.sch.resolve(columnIDs)
	if err != nil {
		return nil, err
	}
	if err := d.sch.checkRange(min, max); err != nil {
		return nil, err
	}
	if buffer < 0 {
		buffer = 0
	}

	d.mu.Lock()
	lo, hi := window(d.rows, min, max, buffer)
	snapshot := project(d.rows, lo, hi, cols)

	var toFetch []interval
	for _, gap := range gaps(interval{min.Real(), max.Real()}, &d.resident, &d.pending) {
		if d.limiter != nil && !d.limiter.Allow("fetch") {
			// Stays Unknown; eventual completeness comes from the retry
			// on the next touch.
			d.metrics.RecordError("fetch_throttled")
			continue
		}
		d.pending.add(gap)
		toFetch = append(toFetch, gap)
	}
	d.mu.Unlock()

	for _, gap := range toFetch {
		go d.fetch(gap)
	}
	return newIterator(snapshot), nil
}

// OnReady registers h for load-completion notifications. Handlers run on
// the fetch goroutine, never inside a caller's query.
func (d *DynamicSource) OnReady(h ReadyHandler) {
	if h == nil {
		return
	}
	d.mu.Lock()
	d.handlers = append(d.handlers, h)
	d.mu.Unlock()
}

// Errors exposes failed loads. Receivers that fall behind lose oldest-first
// semantics but never block a fetch.
func (d *DynamicSource) Errors() <-chan RangeError {
	return d.errs
}

func (d *DynamicSource) GetBounds(columnID string) (data.Value, data.Value, error) {
	col, ok := d.sch.byID[columnID]
	if !ok {
		return nil, nil, data.ErrColumnNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return columnBounds(d.rows, col)
}

// Append merges live rows through the same idempotent path as fetched ones
// and marks each appended key resident. Rows violating the schema are dropped;
// a batch with nothing valid left is an error.
func (d *DynamicSource) Append(rows []data.Row) error {
	valid := d.validRows(rows)
	if len(valid) == 0 {
		if len(rows) > 0 {
			return fmt.Errorf("append: no valid rows in batch of %d", len(rows))
		}
		return nil
	}
	lo, hi := valid[0].Key(), valid[0].Key()
	for _, r := range valid[1:] {
		if r.Key() < lo {
			lo = r.Key()
		}
		if r.Key() > hi {
			hi = r.Key()
		}
	}

	d.mu.Lock()
	d.mergeLocked(valid)
	// Only the appended keys become resident. Holes between them stay
	// Unknown so a later query still schedules their fetch.
	for _, r := range valid {
		d.resident.add(interval{r.Key(), r.Key()})
	}
	handlers := append([]ReadyHandler(nil), d.handlers...)
	count := len(d.rows)
	d.mu.Unlock()

	d.metrics.RecordResidentRows(count)
	kind := d.sch.keyKind()
	for _, h := range handlers {
		h(data.FromReal(kind, lo), data.FromReal(kind, hi))
	}
	return nil
}

func (d *DynamicSource) fetch(gap interval) {
	kind := d.sch.keyKind()
	min := data.FromReal(kind, gap.lo)
	max := data.FromReal(kind, gap.hi)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	rows, err := d.fetcher.FetchRange(ctx, min, max)
	if err != nil {
		d.mu.Lock()
		d.pending.remove(gap)
		d.mu.Unlock()

		d.metrics.RecordFetch("error", time.Since(start).Seconds())
		d.metrics.RecordError("fetch")
		if d.l != nil {
			d.l.Error("range load failed",
				applogger.String("min", min.String()),
				applogger.String("max", max.String()),
				applogger.Error(err),
			)
		}
		select {
		case d.errs <- RangeError{Min: min, Max: max, Err: err}:
		default:
		}
		return
	}

	d.mu.Lock()
	d.mergeLocked(d.validRows(rows))
	d.pending.remove(gap)
	d.resident.add(gap)
	handlers := append([]ReadyHandler(nil), d.handlers...)
	count := len(d.rows)
	d.mu.Unlock()

	d.metrics.RecordFetch("ok", time.Since(start).Seconds())
	d.metrics.RecordResidentRows(count)
	if d.l != nil {
		d.l.Debug("range load merged",
			applogger.String("min", min.String()),
			applogger.String("max", max.String()),
			applogger.Int("rows", len(rows)),
		)
	}
	for _, h := range handlers {
		h(min, max)
	}
}

// validRows drops rows that do not match the schema; a misbehaving backend
// must not corrupt the cache.
func (d *DynamicSource) validRows(rows []data.Row) []data.Row {
	out := make([]data.Row, 0, len(rows))
	for _, r := range rows {
		if err := d.sch.checkRow(r); err != nil {
			d.metrics.RecordError("bad_row")
			if d.l != nil {
				d.l.Warn("dropping malformed row", applogger.Error(err))
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeLocked folds incoming rows into the sorted cache, last write wins
// per column-0 key. Re-merging an already resident range leaves the cache
// unchanged. Caller holds d.mu.
func (d *DynamicSource) mergeLocked(in []data.Row) {
	if len(in) == 0 {
		return
	}
	in = append([]data.Row(nil), in...)
	sort.SliceStable(in, func(i, j int) bool { return in[i].Key() < in[j].Key() })
	// Within one batch, keep the last row per key.
	dedup := in[:0]
	for i, r := range in {
		if i+1 < len(in) && in[i+1].Key() == r.Key() {
			continue
		}
		dedup = append(dedup, r)
	}
	in = dedup

	out := make([]data.Row, 0, len(d.rows)+len(in))
	i, j := 0, 0
	for i < len(d.rows) && j < len(in) {
		switch a, b := d.rows[i].Key(), in[j].Key(); {
		case a < b:
			out = append(out, d.rows[i])
			i++
		case b < a:
			out = append(out, in[j])
			j++
		default:
			// Incoming replaces resident.
			i++
		}
	}
	out = append(out, d.rows[i:]...)
	out = append(out, in[j:]...)
	d.rows = out
}
