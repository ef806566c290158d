// Package stream serves replay frames to viewers over WebSocket and
// routes their control commands back to the engine.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/streaming"
)

// DispatchFunc routes a viewer command to the engine and returns its result.
type DispatchFunc func(name string, args []string) (any, error)

// Server broadcasts frame snapshots to all connected viewers.
type Server struct {
	upgrader ws.Upgrader
	dispatch DispatchFunc
	logger   *slog.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	hello    []byte
	httpSrv  *http.Server
	listener net.Listener
}

// NewServer creates a stream server. dispatch may be nil, in which case
// viewer commands are rejected.
func NewServer(dispatch DispatchFunc, logger *slog.Logger) *Server {
	if dispatch == nil {
		dispatch = func(name string, _ []string) (any, error) {
			return nil, fmt.Errorf("controls not available")
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		upgrader: ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		dispatch: dispatch,
		logger:   logger,
		clients:  make(map[*client]struct{}),
	}
}

// SetMission caches the hello message sent to each new viewer.
func (s *Server) SetMission(m *core.Mission) error {
	data, err := marshalEnvelope(streaming.TypeHello, streaming.HelloPayload{
		Title:     m.Meta.Title,
		Sector:    m.Meta.Sector,
		DurationS: m.DurationS,
		Center:    m.Center,
		Aircraft:  m.Aircraft,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hello = data
	s.mu.Unlock()
	return nil
}

// Listen starts accepting viewers on addr. Non-blocking; the HTTP
// server runs until Close.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stream listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.mu.Lock()
	s.listener = ln
	s.httpSrv = &http.Server{Handler: mux}
	s.mu.Unlock()

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("stream server error", "error", err)
		}
	}()

	s.logger.Info("stream server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address, or empty before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("viewer upgrade failed", "error", err)
		return
	}

	c := newClient(conn, s.logger)

	s.mu.Lock()
	s.clients[c] = struct{}{}
	hello := s.hello
	s.mu.Unlock()

	if hello != nil {
		c.send(hello)
	}

	go c.writeLoop()
	go func() {
		c.readLoop(s.dispatch)
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	s.logger.Info("viewer connected", "remote", conn.RemoteAddr().String())
}

// Broadcast pushes one frame snapshot to every connected viewer.
func (s *Server) Broadcast(snap core.FrameSnapshot) {
	data, err := marshalEnvelope(streaming.TypeFrame, streaming.FramePayload{Snapshot: snap})
	if err != nil {
		s.logger.Error("marshaling frame", "error", err)
		return
	}

	s.mu.Lock()
	for c := range s.clients {
		c.send(data)
	}
	s.mu.Unlock()
}

// Viewers returns the number of connected viewers.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects all viewers and stops the HTTP server.
func (s *Server) Close() error {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = make(map[*client]struct{})
	srv := s.httpSrv
	s.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
	return nil
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
