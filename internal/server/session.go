package server

import (
	"io"
	"net"
	"sync"

	gws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Session is one panel attached to the endpoint over WebSocket.
type Session struct {
	ID         string
	RemoteAddr string
	Outgoing   chan []byte

	conn      net.Conn
	rw        io.ReadWriter
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(conn net.Conn, r io.Reader, remoteAddr string) *Session {
	s := &Session{
		RemoteAddr: remoteAddr,
		Outgoing:   make(chan []byte, 10),
		conn:       conn,
	}
	s.rw = struct {
		io.Reader
		io.Writer
	}{r, writerFunc(s.writeRaw)}
	return s
}

// Read reads the next data frame from the panel, answering control frames.
func (s *Session) Read() ([]byte, gws.OpCode, error) {
	return wsutil.ReadClientData(s.rw)
}

// Write sends a binary frame to the panel.
func (s *Session) Write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return wsutil.WriteServerBinary(s.conn, data)
}

// Close sends a close frame and closes the connection. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = wsutil.WriteServerMessage(s.conn, gws.OpClose, gws.NewCloseFrameBody(gws.StatusGoingAway, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func (s *Session) writeRaw(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.Write(p)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
