package ws

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// Conn wraps one websocket session. Outbound events go through a
// buffered channel drained by WriteLoop so a slow client never blocks
// a broadcast.
type Conn struct {
	id  string
	ws  *websocket.Conn
	out chan []byte
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

func NewConn(id string, wsc *websocket.Conn) *Conn {
	return &Conn{
		id:  id,
		ws:  wsc,
		out: make(chan []byte, 256),
	}
}

func (c *Conn) ID() string { return c.id }

// Send queues an event for this connection, dropping it if the send
// buffer is full. Implements chat.Sender.
func (c *Conn) Send(event string, payload any) {
	b, err := encodeFrame(event, 0, payload)
	if err != nil {
		return
	}
	c.queue(b)
}

func (c *Conn) queue(b []byte) {
	select {
	case c.out <- b:
	default: // skip if send buffer is full
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
