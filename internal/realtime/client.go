package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 64
)

// Client is one websocket connection bound to an authenticated user.
// The registry keeps at most one client per user.
type Client struct {
	UserID      uint
	UserName    string
	ConnectedAt time.Time

	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewClient wraps an accepted connection for the given user.
func NewClient(conn *websocket.Conn, userID uint, userName string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		UserID:      userID,
		UserName:    userName,
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// enqueue hands a frame to the write pump without blocking. It reports
// false when the buffer is full or the client is shutting down, which
// the dispatcher treats as a dead connection.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump drains inbound frames until the connection drops. The server
// pushes events only, so inbound payloads are discarded; reading is
// still required to process control frames and detect closure.
func (c *Client) ReadPump(reg *Registry) {
	defer func() {
		reg.Unregister(c)
		c.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(c.ctx); err != nil {
			return
		}
	}
}

// WritePump flushes the send buffer to the socket and pings on an
// interval to keep intermediaries from dropping idle connections.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Log.Debug("websocket write failed",
					zap.Uint("user_id", c.UserID),
					zap.Error(err))
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			_ = c.conn.Close(code, reason)
		}
	})
}
