package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"GraphAxis/internal/domain/data"
	drepo "GraphAxis/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a RowStream backed by a WebSocket feed that pushes
// appended rows for one dataset.
type Client struct {
	url            string
	dataset        string
	columns        []*data.Variable
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// New creates a WebSocket row stream for the given dataset.
func New(url, dataset string, columns []*data.Variable, reconnectDelay, pingInterval time.Duration) drepo.RowStream {
	return &Client{
		url:            url,
		dataset:        dataset,
		columns:        columns,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Subscribe asks the feed for the configured dataset.
func (c *Client) Subscribe(ctx context.Context) error {
	conn := c.current()
	if conn == nil {
		return fmt.Errorf("stream not connected")
	}
	msg := map[string]string{"type": "subscribe", "dataset": c.dataset}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe %s: %w", c.dataset, err)
	}
	return nil
}

func (c *Client) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	return c.conn
}

type rowsFrame struct {
	Type string      `json:"type"`
	Data [][]float64 `json:"data"`
}

// Read streams appended rows and errors until the connection fails or ctx
// is done, then closes both channels. The ping and read goroutines are
// bound to the connection current at call time; they never touch a
// connection established by a later Reconnect.
func (c *Client) Read(ctx context.Context) (<-chan data.Row, <-chan error) {
	rows := make(chan data.Row, 1024)
	errs := make(chan error, 1)

	conn := c.current()
	if conn == nil {
		errs <- fmt.Errorf("stream not connected")
		close(rows)
		close(errs)
		return rows, errs
	}

	done := make(chan struct{})

	// ping loop, stops with this connection's read loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}()

	// read loop
	go func() {
		defer close(rows)
		defer close(errs)
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("stream read: %w", err)
				return
			}
			var frame rowsFrame
			if err := json.Unmarshal(b, &frame); err != nil {
				// ignore non-row frames
				continue
			}
			if frame.Type != "rows" {
				continue
			}
			for _, reals := range frame.Data {
				row := data.RowFromReals(c.columns, reals)
				if row == nil {
					continue
				}
				select {
				case rows <- row:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return rows, errs
}

// Reconnect closes the current connection and establishes a new one. The
// caller must obtain fresh channels with Read afterwards; the previous
// Read's goroutines stop when their own connection dies.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected reports connection state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
