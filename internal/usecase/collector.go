package usecase

import (
	"context"
	"time"

	"GraphAxis/internal/domain/data"
	drepo "GraphAxis/internal/domain/repository"
	mid "GraphAxis/internal/middleware"
)

const (
	reconnectBaseDelay = 100 * time.Millisecond
	reconnectMaxDelay  = 30 * time.Second
)

// RowCollector consumes a live row stream and feeds appended rows into the
// data source cache through the pipeline.
type RowCollector struct {
	stream  drepo.RowStream
	sink    mid.Sink
	metrics drepo.Metrics
	pipe    *mid.LivePipeline
}

func NewRowCollector(stream drepo.RowStream, sink mid.Sink, metrics drepo.Metrics, pipe *mid.LivePipeline) *RowCollector {
	return &RowCollector{stream: stream, sink: sink, metrics: metrics, pipe: pipe}
}

// IsConnected reports whether the stream is connected.
func (c *RowCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *RowCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	rowCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, rowCh, errCh)
	return nil
}

// consume drains the stream until ctx is done. A stream error or a closed
// channel both mean the connection is gone: reconnect with backoff and
// resume on the fresh channels.
func (c *RowCollector) consume(ctx context.Context, rowCh <-chan data.Row, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok || err != nil {
				c.metrics.RecordError("stream")
				if !c.reconnect(ctx) {
					return
				}
				rowCh, errCh = c.stream.Read(ctx)
			}
		case row, ok := <-rowCh:
			if !ok {
				if !c.reconnect(ctx) {
					return
				}
				rowCh, errCh = c.stream.Read(ctx)
				continue
			}
			if row == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, row)
			} else {
				_ = c.sink.Append([]data.Row{row})
			}
		}
	}
}

// reconnect retries with doubling delay until the stream is back or ctx is
// done. Returns false only on ctx cancellation.
func (c *RowCollector) reconnect(ctx context.Context) bool {
	delay := reconnectBaseDelay
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		if err := c.stream.Reconnect(ctx); err == nil {
			return true
		}
		c.metrics.RecordError("stream_reconnect")
		if delay < reconnectMaxDelay {
			delay *= 2
		}
	}
}

func (c *RowCollector) Stop() error { return c.stream.Close() }

// Shutdown stops the pipeline and closes the stream.
func (c *RowCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
