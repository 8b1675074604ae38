// Package panel binds a message log and a composition input to an event channel.
//
// User submissions are rendered and forwarded as message events; response
// events from the endpoint are rendered as server messages. The panel keeps
// the ordered list of rendered messages as its source of truth and mirrors
// every render onto a Display.
package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/omochice/chat-panel/internal/channel"
	"github.com/omochice/chat-panel/pkg/protocol"
	"github.com/samber/lo"
)

var (
	ErrMissingChannel = errors.New("panel: channel is required")
	ErrMissingDisplay = errors.New("panel: display container is required")
	ErrMissingInput   = errors.New("panel: input field is required")
)

// Display is the scrolling message log.
type Display interface {
	// Append adds a node for msg at the end of the log.
	Append(msg Message) error

	// ScrollToEnd makes the end of the log visible.
	ScrollToEnd()
}

// Input is the text field of the composition form.
type Input interface {
	Value() string
	Clear()
}

// Config holds the collaborators of a Panel.
type Config struct {
	Channel channel.Channel
	Display Display
	Input   Input

	// Loop, when set, receives every channel callback so they run on the
	// loop goroutine. Without it callbacks run on the channel's goroutine.
	Loop   *Loop
	Logger *slog.Logger
}

// Panel is a chat panel bound to one channel for its whole lifetime.
type Panel struct {
	channel channel.Channel
	display Display
	input   Input
	loop    *Loop
	log     *slog.Logger

	mu       sync.RWMutex
	messages []Message
	state    channel.State
}

// New validates cfg and subscribes the panel to the channel's response and
// lifecycle events. A missing collaborator is a configuration error.
func New(cfg Config) (*Panel, error) {
	var errs []error
	if cfg.Channel == nil {
		errs = append(errs, ErrMissingChannel)
	}
	if cfg.Display == nil {
		errs = append(errs, ErrMissingDisplay)
	}
	if cfg.Input == nil {
		errs = append(errs, ErrMissingInput)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to initialize panel: %w", errors.Join(errs...))
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	p := &Panel{
		channel: cfg.Channel,
		display: cfg.Display,
		input:   cfg.Input,
		loop:    cfg.Loop,
		log:     log.With("component", "panel"),
		state:   cfg.Channel.State(),
	}

	p.channel.On(protocol.EventResponse, p.deliver(p.HandleResponse))
	p.channel.On(protocol.EventConnect, p.deliver(func(string) { p.setState(channel.Connected) }))
	p.channel.On(protocol.EventDisconnect, p.deliver(func(string) { p.setState(channel.Disconnected) }))

	return p, nil
}

// Submit handles a form submission. A value that is empty after trimming is
// ignored and the input is left untouched. Otherwise the trimmed text is
// rendered as a user message, emitted as a message event and the input is
// cleared. A failed emit is logged; the render and the clear still stand.
func (p *Panel) Submit() {
	text := strings.TrimSpace(p.input.Value())
	if text == "" {
		return
	}

	p.render(Message{Content: text, Origin: OriginUser})

	if err := p.channel.Emit(protocol.EventMessage, text); err != nil {
		p.log.Warn("message not delivered", "error", err, "state", p.channel.State())
	}

	p.input.Clear()
}

// HandleResponse renders payload verbatim as a server message.
func (p *Panel) HandleResponse(payload string) {
	p.render(Message{Content: payload, Origin: OriginServer})
}

// Messages returns the rendered messages, oldest first.
func (p *Panel) Messages() []Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.messages)
}

// MessagesFrom returns the rendered messages of one origin, oldest first.
func (p *Panel) MessagesFrom(origin Origin) []Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Filter(p.messages, func(m Message, _ int) bool {
		return m.Origin == origin
	})
}

// State returns the connection state last signalled by the channel.
func (p *Panel) State() channel.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Panel) render(msg Message) {
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()

	if err := p.display.Append(msg); err != nil {
		p.log.Warn("failed to render message", "origin", msg.Origin, "error", err)
	}
	p.display.ScrollToEnd()
}

func (p *Panel) setState(s channel.State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()

	switch s {
	case channel.Connected:
		p.log.Info("connected to server")
	case channel.Disconnected:
		p.log.Info("disconnected from server")
	}
}

func (p *Panel) deliver(h channel.Handler) channel.Handler {
	if p.loop == nil {
		return h
	}
	return func(payload string) {
		if !p.loop.Post(func() { h(payload) }) {
			p.log.Debug("loop stopped, event dropped")
		}
	}
}
