// Package clip places final command text on the clipboard.
package clip

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard not available (install xclip, xsel or wl-clipboard)")

type Clipboard interface {
	WriteAll(text string) error
}

// System writes to the desktop clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Memory keeps the last written text. It is used by tests and by hosts
// that print instead of copying.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

// Text returns the last text written and how many writes happened.
func (m *Memory) Text() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.writes
}
