// Package ws provides a WebSocket implementation of channel.Channel.
package ws

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	gws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/omochice/chat-panel/internal/channel"
	"github.com/omochice/chat-panel/pkg/protocol"
)

// Client is a WebSocket event channel to a single endpoint.
// It never reconnects on its own; a dropped connection stays Disconnected.
type Client struct {
	channel.Handlers

	url string
	log *slog.Logger

	mu      sync.RWMutex
	conn    net.Conn
	closing bool

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

var _ channel.Channel = (*Client)(nil)

// New creates a Client for the endpoint at url (e.g. ws://localhost:8080/ws).
func New(url string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		url: url,
		log: log.With("component", "ws-channel", "url", url),
	}
}

// Connect dials the endpoint, fires the connect event and starts receiving.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return fmt.Errorf("already connected to %s", c.url)
	}
	c.mu.Unlock()

	conn, br, _, err := gws.Dial(ctx, c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	var r io.Reader = conn
	if br != nil {
		// Frames sent right after the handshake are already buffered.
		r = br
	}

	c.mu.Lock()
	c.conn = conn
	c.closing = false
	c.mu.Unlock()

	c.log.Info("connected to server")
	c.Dispatch(protocol.EventConnect, "")

	c.wg.Add(1)
	go c.receive(conn, r)

	return nil
}

// Close closes the connection and waits for the receive loop to finish.
// It must not be called from inside a handler.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.closing = true
	c.mu.Unlock()

	var err error
	if conn != nil {
		c.writeMu.Lock()
		_ = wsutil.WriteClientMessage(conn, gws.OpClose, gws.NewCloseFrameBody(gws.StatusNormalClosure, ""))
		c.writeMu.Unlock()
		err = conn.Close()
	}

	c.wg.Wait()
	return err
}

// State implements channel.Channel.
func (c *Client) State() channel.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return channel.Disconnected
	}
	return channel.Connected
}

// Emit implements channel.Channel.
// There is no connectivity check beyond the presence of a connection and
// no buffering: an event emitted while disconnected is lost.
func (c *Client) Emit(event, payload string) error {
	ev := protocol.Event{Name: event, Payload: payload}
	if ev.IsLifecycle() {
		return fmt.Errorf("cannot emit reserved event %q", event)
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return channel.ErrNotConnected
	}

	data, err := ev.Encode()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wsutil.WriteClientBinary(conn, data); err != nil {
		return fmt.Errorf("failed to send %s event: %w", event, err)
	}
	return nil
}

func (c *Client) receive(conn net.Conn, r io.Reader) {
	defer c.wg.Done()

	rw := struct {
		io.Reader
		io.Writer
	}{bufio.NewReader(r), &lockedWriter{mu: &c.writeMu, w: conn}}

	for {
		data, op, err := wsutil.ReadServerData(rw)
		if err != nil {
			c.drop(conn, err)
			return
		}
		if op != gws.OpBinary {
			c.log.Warn("ignoring non-binary frame", "opcode", op)
			continue
		}

		var ev protocol.Event
		if err := ev.Decode(data); err != nil {
			c.log.Warn("failed to decode event", "error", err)
			continue
		}
		if ev.IsLifecycle() {
			c.log.Warn("ignoring lifecycle event from server", "event", ev.Name)
			continue
		}

		if n := c.Dispatch(ev.Name, ev.Payload); n == 0 {
			c.log.Debug("no handler for event", "event", ev.Name)
		}
	}
}

// drop moves the client to Disconnected and fires the disconnect event once per connection.
func (c *Client) drop(conn net.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	closing := c.closing
	c.mu.Unlock()

	_ = conn.Close()

	if closing {
		c.log.Info("disconnected from server")
	} else {
		c.log.Warn("connection lost", "error", cause)
	}
	c.Dispatch(protocol.EventDisconnect, "")
}

// lockedWriter serializes control frame replies with Emit.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
