// Package ssh adapts gliderlabs/ssh sessions to tcell terminals.
package ssh

import (
	"errors"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// ErrNoPty is returned for sessions opened without a pseudo-terminal.
var ErrNoPty = errors.New("session has no pty")

// Tty implements tcell.Tty on top of an SSH channel. Each connected client
// gets its own Tty and tcell.Screen.
type Tty struct {
	rw    io.ReadWriteCloser
	term  string
	winCh <-chan gossh.Window
	done  <-chan struct{}

	mu     sync.Mutex
	window gossh.Window
	cb     func() // resize callback registered by tcell
	once   sync.Once
}

// NewTty wraps s. It fails with ErrNoPty when the client did not request a
// pseudo-terminal.
func NewTty(s gossh.Session) (*Tty, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPty
	}
	return newTty(s, pty, winCh, s.Context().Done()), nil
}

func newTty(rw io.ReadWriteCloser, pty gossh.Pty, winCh <-chan gossh.Window, done <-chan struct{}) *Tty {
	return &Tty{
		rw:     rw,
		term:   pty.Term,
		winCh:  winCh,
		done:   done,
		window: pty.Window,
	}
}

// Term returns the TERM value the client sent with its pty request.
func (t *Tty) Term() string { return t.term }

// Read reads keyboard input from the channel.
func (t *Tty) Read(b []byte) (int, error) { return t.rw.Read(b) }

// Write writes rendered output to the channel.
func (t *Tty) Write(b []byte) (int, error) { return t.rw.Write(b) }

// Close closes the SSH channel.
func (t *Tty) Close() error { return t.rw.Close() }

// Start is a no-op; the channel is already open.
func (t *Tty) Start() error { return nil }

// Stop is a no-op; the session handler owns the channel.
func (t *Tty) Stop() error { return nil }

// Drain is a no-op; SSH flushes writes immediately.
func (t *Tty) Drain() error { return nil }

// WindowSize returns the current terminal dimensions.
func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb to run after every window change. The first
// call starts the goroutine that follows window changes until the session
// ends.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	t.once.Do(func() { go t.watch() })
}

func (t *Tty) watch() {
	for {
		select {
		case <-t.done:
			return
		case win, ok := <-t.winCh:
			if !ok {
				return
			}
			t.mu.Lock()
			t.window = win
			cb := t.cb
			t.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
	}
}
