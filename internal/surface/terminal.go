// Package surface implements the terminal sessions hosted by leaf panes: a tmux
// session per surface, attached in control mode and emulated with midterm.
package surface

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/profile"
	"github.com/abdullathedruid/splitmux/internal/tmux"
)

// Connection is the live link to a tmux session.
type Connection interface {
	// OutputChan delivers terminal output and is closed when the session ends.
	OutputChan() <-chan []byte
	Resize(width, height int) error
	SendKeys(keys string) error
	SendLiteralKeys(keys string) error
	Close() error
}

// FocusTracker owns keyboard focus for the screen. Terminals are identified
// by their view name.
type FocusTracker interface {
	IsFocused(name string) bool
	Focus(name string)
}

// Terminal is a pane.Surface backed by a tmux session.
type Terminal struct {
	name      string
	session   string
	profileID profile.ID

	client tmux.Client
	conn   Connection
	buf    *Buffer
	scroll *Scrollback
	focus  FocusTracker
	redraw func()
	log    zerolog.Logger

	mu       sync.Mutex
	settings profile.Settings
	closing  bool
	detached bool
	ended    bool

	exited pane.Event
	done   chan struct{}
}

// OnConnectionClosed subscribes fn to the end of the tmux session. fn runs on
// the output pump goroutine, or right away on the caller's if the session has
// already ended.
func (t *Terminal) OnConnectionClosed(fn func()) *pane.Subscription {
	t.mu.Lock()
	if !t.ended {
		defer t.mu.Unlock()
		return t.exited.Subscribe(fn)
	}
	t.mu.Unlock()

	fn()
	return &pane.Subscription{}
}

// CloseOnExit reports the profile setting, or true once Close was requested.
func (t *Terminal) CloseOnExit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closing || t.settings.CloseOnExit
}

// IsFocused reports whether this terminal's view holds keyboard focus.
func (t *Terminal) IsFocused() bool {
	return t.focus.IsFocused(t.name)
}

// RequestFocus moves keyboard focus to this terminal.
func (t *Terminal) RequestFocus() {
	t.focus.Focus(t.name)
	t.redraw()
}

// UpdateSettings applies new profile settings to the live session.
func (t *Terminal) UpdateSettings(settings profile.Settings) {
	t.mu.Lock()
	old := t.settings
	t.settings = settings
	t.mu.Unlock()

	t.scroll.SetLimit(settings.ScrollbackLines)
	if settings.ScrollbackLines != old.ScrollbackLines {
		if err := t.client.SetHistoryLimit(t.session, settings.ScrollbackLines); err != nil {
			t.log.Warn().Err(err).Msg("set history limit")
		}
	}
	t.log.Debug().
		Str("title", settings.Title).
		Bool("close_on_exit", settings.CloseOnExit).
		Int("scrollback", settings.ScrollbackLines).
		Msg("settings updated")
	t.redraw()
}

// Visual returns the terminal itself; the screen draws it by view name.
func (t *Terminal) Visual() pane.Visual {
	return t
}

// ViewName is the gocui view this terminal renders into.
func (t *Terminal) ViewName() string { return t.name }

// Session returns the tmux session name.
func (t *Terminal) Session() string { return t.session }

// ProfileID returns the id of the profile the terminal was created from.
func (t *Terminal) ProfileID() profile.ID { return t.profileID }

// Title is the frame title for the terminal's view.
func (t *Terminal) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scroll.IsScrolled() {
		return t.settings.Title + " [scrollback]"
	}
	return t.settings.Title
}

// Scrollback returns the terminal's scrollback state.
func (t *Terminal) Scrollback() *Scrollback { return t.scroll }

// Resize updates the emulator and tells tmux about the new size.
func (t *Terminal) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	if r, c := t.buf.Dimensions(); r == rows && c == cols {
		return
	}
	t.buf.Resize(rows, cols)
	t.scroll.InvalidateCache()
	if err := t.conn.Resize(cols, rows); err != nil {
		t.log.Debug().Err(err).Msg("resize")
	}
}

// Render returns the frame to draw. While scrolled it shows captured history.
func (t *Terminal) Render(rows int) (Frame, error) {
	if !t.scroll.IsScrolled() {
		return t.buf.Snapshot()
	}
	lines, err := t.scroll.CaptureHistory(rows)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Content: strings.Join(lines, "\n")}, nil
}

// SendKeys forwards tmux key names (e.g. "Enter", "C-c") to the session.
func (t *Terminal) SendKeys(keys string) error {
	return t.conn.SendKeys(keys)
}

// SendLiteralKeys forwards typed text to the session.
func (t *Terminal) SendLiteralKeys(keys string) error {
	return t.conn.SendLiteralKeys(keys)
}

// Close kills the tmux session. The pane closes through the normal
// connection-closed path, regardless of the profile's close-on-exit setting.
func (t *Terminal) Close() error {
	t.mu.Lock()
	t.closing = true
	t.mu.Unlock()

	return t.client.KillSession(t.session)
}

// Shutdown tears down the session without raising connection-closed. Used when
// splitmux itself exits.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()

	t.conn.Close()
	if err := t.client.KillSession(t.session); err != nil {
		t.log.Debug().Err(err).Msg("kill session on shutdown")
	}
	<-t.done
}

// Done is closed when the output pump has stopped.
func (t *Terminal) Done() <-chan struct{} { return t.done }

func (t *Terminal) String() string { return t.name }

// pump copies session output into the buffer until the connection ends.
func (t *Terminal) pump() {
	defer close(t.done)

	for data := range t.conn.OutputChan() {
		t.buf.Write(data)
		t.scroll.InvalidateCache()
		t.redraw()
	}
	t.conn.Close()

	t.mu.Lock()
	detached := t.detached
	t.ended = !detached
	t.mu.Unlock()
	if detached {
		return
	}

	t.log.Debug().Str("session", t.session).Msg("connection closed")
	t.exited.Raise()
}
