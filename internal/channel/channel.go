// Package channel defines the bidirectional event channel a chat panel talks through.
package channel

import (
	"errors"
	"sync"
)

// ErrNotConnected is returned by Emit when the channel has no live connection.
// The event is dropped.
var ErrNotConnected = errors.New("not connected to server")

// State is the connection state of a Channel.
type State int

const (
	Disconnected State = iota
	Connected
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Handler receives the payload of an event. Lifecycle events carry an empty payload.
type Handler func(payload string)

// Channel is a named-event connection to a single remote endpoint.
type Channel interface {
	// Emit sends an event to the endpoint.
	Emit(event, payload string) error

	// On registers a handler for an inbound or lifecycle event.
	On(event string, handler Handler)

	// State returns the current connection state.
	State() State
}

// Handlers is a concurrency-safe registry of event handlers.
// Channel implementations embed it to share dispatch semantics.
type Handlers struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// On registers handler for event. Handlers fire in registration order.
func (h *Handlers) On(event string, handler Handler) {
	if handler == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers == nil {
		h.handlers = make(map[string][]Handler)
	}
	h.handlers[event] = append(h.handlers[event], handler)
}

// Dispatch calls every handler registered for event and reports how many ran.
func (h *Handlers) Dispatch(event, payload string) int {
	h.mu.RLock()
	hs := append([]Handler(nil), h.handlers[event]...)
	h.mu.RUnlock()

	for _, handler := range hs {
		handler(payload)
	}
	return len(hs)
}
