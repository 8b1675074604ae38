package panel_test

import (
	"sync"

	"github.com/omochice/chat-panel/internal/channel"
	"github.com/omochice/chat-panel/internal/panel"
)

type emitted struct {
	event   string
	payload string
}

// fakeChannel records emitted events and lets tests deliver inbound ones.
type fakeChannel struct {
	channel.Handlers

	mu      sync.Mutex
	emits   []emitted
	emitErr error
	state   channel.State
}

func (f *fakeChannel) Emit(event, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emits = append(f.emits, emitted{event: event, payload: payload})
	return nil
}

func (f *fakeChannel) State() channel.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeChannel) Emitted() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitted(nil), f.emits...)
}

// fakeDisplay keeps rendered nodes and a scroll position measured in lines.
type fakeDisplay struct {
	mu        sync.Mutex
	nodes     []panel.Message
	scrollTop int
	appendErr error
}

func (d *fakeDisplay) Append(msg panel.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.appendErr != nil {
		return d.appendErr
	}
	d.nodes = append(d.nodes, msg)
	return nil
}

func (d *fakeDisplay) ScrollToEnd() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollTop = d.maxScroll()
}

func (d *fakeDisplay) maxScroll() int {
	return len(d.nodes)
}

func (d *fakeDisplay) Nodes() []panel.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]panel.Message(nil), d.nodes...)
}

func (d *fakeDisplay) AtBottom() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollTop == d.maxScroll()
}

type fakeInput struct {
	value string
}

func (i *fakeInput) Value() string { return i.value }
func (i *fakeInput) Clear()        { i.value = "" }

var _ channel.Channel = (*fakeChannel)(nil)
