// Package realtime adapts gorilla websockets to the registry's connection handle.
package realtime

import (
	"chat-hub/errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	closeWait      = time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 4096
)

// Connection wraps a websocket and serializes outbound writes through a bounded buffer.
// SendText never blocks: a client too slow to drain its buffer is disconnected.
type Connection struct {
	ws   *websocket.Conn
	log  *slog.Logger
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConnection(ws *websocket.Conn, log *slog.Logger, bufferSize int) *Connection {
	return &Connection{
		ws:   ws,
		log:  log,
		send: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
}

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

func (c *Connection) SendText(payload []byte) error {
	select {
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
		c.closeWith(websocket.ClosePolicyViolation, "send buffer full")
		return errors.ErrSendBufferFull
	}
}

// Close is idempotent, safe to call from any goroutine and returns without waiting on the peer.
func (c *Connection) Close() {
	c.closeWith(websocket.CloseGoingAway, "session closed")
}

// Done is closed once the connection is closed, by either side.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) closeWith(code int, reason string) {
	c.once.Do(func() {
		close(c.done)
		// The write loop can hold the socket until its own deadline, a stuck peer must not stall the caller
		go func() {
			deadline := time.Now().Add(closeWait)
			_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
			_ = c.ws.Close()
		}()
	})
}

// ReadLoop consumes inbound frames until the peer goes away. Their content is ignored,
// they only keep the session alive along with pongs.
func (c *Connection) ReadLoop() {
	defer c.Close()

	c.ws.SetReadLimit(maxInboundSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Websocket read failed", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				c.log.Debug("Websocket write failed", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
