package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrConnClosed is returned by Send on a connection that is no longer open.
var ErrConnClosed = errors.New("connection closed")

// Conn is the minimal push-transport surface the registry and router need.
// The registry holds non-owning references; the transport layer that created
// a connection is responsible for tearing it down.
type Conn interface {
	Send(payload []byte) error
	Open() bool
	Close() error
}

// wsConn wraps a gorilla websocket connection with a write lock and an
// open/closed flag. gorilla conns do not allow concurrent writers.
type wsConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	info   ConnInfo
}

func newWSConn(conn *websocket.Conn, info ConnInfo) *wsConn {
	return &wsConn{conn: conn, info: info}
}

func (c *wsConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsConn) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
