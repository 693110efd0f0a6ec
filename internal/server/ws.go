// Package server accepts remote actors over websocket and SSH and feeds them
// into a game's lobby.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/protocol"
)

// WSServer handles HTTP and WebSocket connections. Every websocket becomes a
// RemoteAgent registered with the lobby.
type WSServer struct {
	ctx      context.Context
	lobby    dungeon.Registrar
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	agents  []*protocol.RemoteAgent
	pending int // connections still in the handshake
}

// NewWSServer creates a server feeding lobby. Agents' read loops live until
// ctx ends.
func NewWSServer(ctx context.Context, lobby dungeon.Registrar, logger *log.Logger) *WSServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &WSServer{
		ctx:    ctx,
		lobby:  lobby,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP handles HTTP requests
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		s.handleWebSocket(w, r)
	case "/health":
		s.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *WSServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	registered, pending := len(s.agents), s.pending
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"game":       "dungeon",
		"registered": registered,
		"connecting": pending,
	})
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	t := protocol.NewWSTransport(conn)

	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	go func() {
		agent, err := protocol.Handshake(s.ctx, t, s.lobby, protocol.WithLogger(s.logger))

		s.mu.Lock()
		s.pending--
		if err == nil {
			s.agents = append(s.agents, agent)
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Info("registration refused", "remote", r.RemoteAddr, "err", err)
			t.Close()
			return
		}
		s.logger.Info("actor registered", "actor", agent.Name(), "kind", agent.Kind(), "remote", r.RemoteAddr)
	}()
}

// Agents returns the actors registered so far.
func (s *WSServer) Agents() []*protocol.RemoteAgent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.RemoteAgent(nil), s.agents...)
}

// CloseAll disconnects every registered actor.
func (s *WSServer) CloseAll() {
	for _, a := range s.Agents() {
		a.Close()
	}
}
