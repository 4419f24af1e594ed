package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const readDeadline = 60 * time.Second

// Server upgrades HTTP connections and registers them as broadcast subscribers.
type Server struct {
	registry     *Registry
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(registry *Registry, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		registry:     registry,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for the /ws/ endpoint.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := NewSubscriber(conn, s.writeTimeout)
	s.registry.Add(sub)

	go s.readLoop(conn, sub)
	s.logger.Info("subscriber connected", zap.String("remote_addr", conn.RemoteAddr().String()))
}

// readLoop drains inbound keep-alive messages until the connection closes,
// then unregisters the subscriber.
func (s *Server) readLoop(conn *websocket.Conn, sub *Subscriber) {
	defer func() {
		s.registry.Remove(sub)
		sub.Close()
	}()

	conn.SetReadLimit(1024 * 1024)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Info("subscriber disconnected", zap.String("remote_addr", conn.RemoteAddr().String()), zap.Error(err))
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))
	}
}
