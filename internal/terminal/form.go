package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/omochice/chat-panel/internal/panel"
)

// quitCommands end the input session instead of being submitted.
var quitCommands = map[string]bool{
	"/quit": true,
	"/exit": true,
}

// Form is the composition form: a single text field fed from line input.
type Form struct {
	mu    sync.Mutex
	value string
}

var _ panel.Input = (*Form)(nil)

// NewForm creates an empty Form.
func NewForm() *Form {
	return &Form{}
}

// Value implements panel.Input.
func (f *Form) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue replaces the field content.
func (f *Form) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

// Clear implements panel.Input.
func (f *Form) Clear() {
	f.SetValue("")
}

// Run reads r line by line and hands every line to onLine until r is
// exhausted, a quit command is read or ctx is cancelled.
func (f *Form) Run(ctx context.Context, r io.Reader, onLine func(line string)) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if quitCommands[strings.TrimSpace(line)] {
				return nil
			}
			onLine(line)
		}
	}
}
