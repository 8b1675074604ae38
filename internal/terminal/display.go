// Package terminal renders a chat panel onto a text terminal.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/gookit/color"
	"github.com/omochice/chat-panel/internal/panel"
)

// styles maps a message style class to its terminal colour.
var styles = map[string]color.Style{
	panel.OriginUser.StyleClass():   color.New(color.FgCyan),
	panel.OriginServer.StyleClass(): color.New(color.FgGreen, color.OpBold),
}

// Display is a scrolling message log written line by line to a terminal.
type Display struct {
	mu     sync.Mutex
	w      *bufio.Writer
	colour bool
	lines  int
	offset int
}

var _ panel.Display = (*Display)(nil)

// NewDisplay creates a Display writing to w. When colour is set each message
// is coloured by its style class.
func NewDisplay(w io.Writer, colour bool) *Display {
	return &Display{
		w:      bufio.NewWriter(w),
		colour: colour,
	}
}

// Append implements panel.Display.
// Content is written as plain text; control characters are neutralized so a
// payload can never drive the terminal.
func (d *Display) Append(msg panel.Message) error {
	text := plain(msg.Content)
	if d.colour {
		if style, ok := styles[msg.Origin.StyleClass()]; ok {
			text = style.Sprint(text)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := fmt.Fprintln(d.w, text); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	d.lines += strings.Count(msg.Content, "\n") + 1
	return nil
}

// ScrollToEnd implements panel.Display by flushing pending output.
func (d *Display) ScrollToEnd() {
	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.w.Flush()
	d.offset = d.lines
}

// Lines returns the number of lines written so far.
func (d *Display) Lines() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines
}

// Offset returns the last line made visible.
func (d *Display) Offset() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.offset
}

func plain(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return unicode.ReplacementChar
		}
		return r
	}, s)
}
