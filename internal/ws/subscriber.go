package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the write side of a websocket connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// ErrSubscriberClosed indicates a write against an already closed subscriber.
var ErrSubscriberClosed = errors.New("subscriber closed")

// Subscriber is a live connection handle receiving record broadcasts.
// Writes are serialized under the subscriber's own mutex; a write that fails
// or exceeds the deadline marks the subscriber for eviction by the caller.
type Subscriber struct {
	conn         Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewSubscriber builds subscriber over an upgraded connection.
func NewSubscriber(conn Conn, writeTimeout time.Duration) *Subscriber {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Subscriber{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// Send writes one text message to the connection.
func (s *Subscriber) Send(data []byte) error {
	return s.write(websocket.TextMessage, data)
}

// Ping sends a ping control frame.
func (s *Subscriber) Ping() error {
	return s.write(websocket.PingMessage, []byte("ping"))
}

func (s *Subscriber) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSubscriberClosed
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(messageType, data)
}

// Close shuts the underlying connection. Safe to call more than once.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.Close()
}
