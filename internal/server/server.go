// Package server provides a development endpoint for chat panels.
//
// It accepts WebSocket connections on /ws, logs every message event it
// receives and answers each one with a response event.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	gws "github.com/gobwas/ws"
	"github.com/omochice/chat-panel/pkg/protocol"
)

// Path is where the endpoint accepts WebSocket upgrades.
const Path = "/ws"

// Server handles WebSocket connections and delegates bookkeeping to Hub.
type Server struct {
	address string
	hub     *Hub
	respond Responder
	log     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	wg       sync.WaitGroup
}

// New creates a Server listening on address that answers with respond.
func New(address string, hub *Hub, respond Responder, log *slog.Logger) *Server {
	if hub == nil {
		hub = NewHub()
	}
	if respond == nil {
		respond = FixedResponder(DefaultReply)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		address: address,
		hub:     hub,
		respond: respond,
		log:     log.With("component", "server"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleWebSocket)
	s.server = &http.Server{Handler: mux}
	return s
}

// Handler returns the HTTP handler serving the endpoint.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Listen binds the listening socket.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.log.Info("server listening", "addr", listener.Addr().String(), "path", Path)
	return nil
}

// Serve accepts connections until Stop is called. Listen must be called first.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Start listens and serves. It returns nil after Stop.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop shuts the server down and closes every session.
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.hub.CloseAll()
	s.wg.Wait()
	return err
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// SessionCount returns the number of attached panels.
func (s *Server) SessionCount() int {
	return s.hub.SessionCount()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, rw, _, err := gws.UpgradeHTTP(r, w)
	if err != nil {
		s.log.Warn("failed to accept WebSocket connection", "error", err, "remote", r.RemoteAddr)
		return
	}

	session := newSession(conn, rw.Reader, r.RemoteAddr)
	s.hub.Register(session)
	s.log.Info("client connected", "session", session.ID, "remote", session.RemoteAddr)

	s.wg.Add(2)
	go s.readLoop(session)
	go s.writeLoop(session)
}

func (s *Server) readLoop(session *Session) {
	defer s.wg.Done()
	defer close(session.Outgoing)
	defer s.hub.Unregister(session)
	defer session.Close()

	log := s.log.With("session", session.ID)
	for {
		data, op, err := session.Read()
		if err != nil {
			log.Info("client disconnected", "reason", err)
			return
		}
		if op != gws.OpBinary {
			log.Warn("ignoring non-binary frame", "opcode", op)
			continue
		}

		var ev protocol.Event
		if err := ev.Decode(data); err != nil {
			log.Warn("failed to decode event", "error", err)
			continue
		}

		if ev.Name != protocol.EventMessage {
			log.Warn("ignoring unexpected event", "event", ev.Name)
			continue
		}

		log.Info("message from client", "content", ev.Payload)

		reply := protocol.Event{Name: protocol.EventResponse, Payload: s.respond(ev.Payload)}
		out, err := reply.Encode()
		if err != nil {
			log.Warn("failed to encode response", "error", err)
			continue
		}

		select {
		case session.Outgoing <- out:
		default:
			log.Warn("session queue full, dropping response")
		}
	}
}

func (s *Server) writeLoop(session *Session) {
	defer s.wg.Done()
	for data := range session.Outgoing {
		if err := session.Write(data); err != nil {
			s.log.Warn("failed to write to client", "session", session.ID, "error", err)
			_ = session.Close()
			return
		}
	}
}
