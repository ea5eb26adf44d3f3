package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"GraphAxis/internal/domain/data"
	domrepo "GraphAxis/internal/domain/repository"
)

type captureSink struct {
	mu   sync.Mutex
	rows []data.Row
}

func (s *captureSink) Append(rows []data.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func TestPipelineValidates(t *testing.T) {
	p := NewLivePipeline(&captureSink{}, domrepo.NopMetrics{}, 2)

	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil row")
	}
	if err := p.Process(context.Background(), data.Row{data.NumberValue(1)}); err == nil {
		t.Fatalf("expected error for wrong width")
	}
	if err := p.Process(context.Background(), data.Row{nil, data.NumberValue(1)}); err == nil {
		t.Fatalf("expected error for nil key")
	}
}

func TestPipelineFlushesBatches(t *testing.T) {
	sink := &captureSink{}
	p := NewLivePipeline(sink, domrepo.NopMetrics{}, 2,
		WithFlushInterval(10*time.Millisecond),
	)
	p.maxRPS = 0 // no throttle for this test

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	for i := 0; i < 5; i++ {
		row := data.Row{data.NumberValue(float64(i)), data.NumberValue(100)}
		if err := p.Process(ctx, row); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 5 rows flushed, got %d", sink.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPipelineThrottles(t *testing.T) {
	sink := &captureSink{}
	p := NewLivePipeline(sink, domrepo.NopMetrics{}, 1, WithMaxRPS(1))

	ctx := context.Background()
	row := data.Row{data.NumberValue(1)}
	if err := p.Process(ctx, row); err != nil {
		t.Fatalf("first row must pass: %v", err)
	}
	// immediately following rows are throttled and silently dropped
	if err := p.Process(ctx, row); err != nil {
		t.Fatalf("throttled row must not error: %v", err)
	}
	if got := len(p.bufCh); got != 1 {
		t.Fatalf("expected 1 buffered row, got %d", got)
	}
}
