package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"GraphAxis/internal/domain/data"
	domrepo "GraphAxis/internal/domain/repository"
)

// Sink is the minimal downstream interface the pipeline needs.
type Sink interface {
	Append(rows []data.Row) error
}

// LivePipeline sits between a row stream and the data source cache. It
// validates incoming rows, throttles bursts, batches appends, and buffers
// when the downstream append fails.
type LivePipeline struct {
	sink    Sink
	metrics domrepo.Metrics
	width   int

	maxRPS    int
	batchSize int
	flushTick time.Duration

	bufCh    chan data.Row
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen time.Time
}

type PipelineOption func(*LivePipeline)

// WithMaxRPS caps accepted rows per second.
func WithMaxRPS(n int) PipelineOption {
	return func(p *LivePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBatchSize sets how many buffered rows are appended at once.
func WithBatchSize(n int) PipelineOption {
	return func(p *LivePipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithFlushInterval sets how often buffered rows are flushed downstream.
func WithFlushInterval(d time.Duration) PipelineOption {
	return func(p *LivePipeline) {
		if d > 0 {
			p.flushTick = d
		}
	}
}

// NewLivePipeline creates a pipeline in front of sink. width is the
// expected row width; rows of any other width are rejected.
func NewLivePipeline(sink Sink, metrics domrepo.Metrics, width int, opts ...PipelineOption) *LivePipeline {
	p := &LivePipeline{
		sink:      sink,
		metrics:   metrics,
		width:     width,
		maxRPS:    200,
		batchSize: 256,
		flushTick: 250 * time.Millisecond,
		bufCh:     make(chan data.Row, 4096),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background flusher.
func (p *LivePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.flushTick)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				p.flush()
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.flush()
			}
		}
	}()
}

// Stop stops the flusher after one final flush.
func (p *LivePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and buffers one row for the next batch append.
func (p *LivePipeline) Process(ctx context.Context, row data.Row) error {
	now := time.Now()
	if err := p.validate(row); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(now) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	select {
	case p.bufCh <- row:
		return nil
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		return fmt.Errorf("pipeline buffer full")
	}
}

// flush drains up to batchSize rows and appends them downstream. Failed
// batches are requeued once if space remains.
func (p *LivePipeline) flush() {
	batch := make([]data.Row, 0, p.batchSize)
	for len(batch) < p.batchSize {
		select {
		case r := <-p.bufCh:
			batch = append(batch, r)
		default:
			goto drained
		}
	}
drained:
	if len(batch) == 0 {
		return
	}
	if err := p.sink.Append(batch); err != nil {
		p.metrics.RecordError("pipeline_flush")
		for _, r := range batch {
			select {
			case p.bufCh <- r:
			default:
				p.metrics.RecordError("pipeline_buffer_drop")
				return
			}
		}
	}
}

func (p *LivePipeline) validate(row data.Row) error {
	if row == nil {
		return fmt.Errorf("row nil")
	}
	if len(row) != p.width {
		return fmt.Errorf("row width %d, want %d", len(row), p.width)
	}
	if row[0] == nil {
		return fmt.Errorf("row key nil")
	}
	return nil
}

func (p *LivePipeline) allow(now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastSeen.IsZero() || now.Sub(p.lastSeen) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen = now
		return true
	}
	return false
}
