package surface

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/profile"
	"github.com/abdullathedruid/splitmux/internal/terminal"
	"github.com/abdullathedruid/splitmux/internal/tmux"
)

// Dialer opens a connection to an existing tmux session.
type Dialer func(session string, width, height int) (Connection, error)

// ControlModeDialer attaches with tmux control mode over a pty.
func ControlModeDialer(session string, width, height int) (Connection, error) {
	c := terminal.NewControlMode(session)
	if err := c.Start(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Factory creates terminals, one new tmux session each.
type Factory struct {
	Tmux   tmux.Client
	Dial   Dialer
	Focus  FocusTracker
	Redraw func()
	Prefix string
	Log    zerolog.Logger
}

// New starts a session for p sized cols x rows and attaches to it.
func (f *Factory) New(p profile.Profile, cols, rows int) (*Terminal, error) {
	cols, rows = max(cols, 1), max(rows, 1)
	settings := p.Settings()

	// Session names must be unique on the tmux server
	id := uuid.New().String()[:8]
	session := f.Prefix + id

	if err := f.Tmux.NewSession(tmux.NewSessionOptions{
		Name:         session,
		Dir:          p.Dir,
		Command:      p.Command,
		Width:        cols,
		Height:       rows,
		HistoryLimit: settings.ScrollbackLines,
	}); err != nil {
		return nil, fmt.Errorf("creating session for profile %q: %w", p.Name, err)
	}

	dial := f.Dial
	if dial == nil {
		dial = ControlModeDialer
	}
	conn, err := dial(session, cols, rows)
	if err != nil {
		f.Tmux.KillSession(session)
		return nil, fmt.Errorf("attaching to %s: %w", session, err)
	}

	redraw := f.Redraw
	if redraw == nil {
		redraw = func() {}
	}

	t := &Terminal{
		name:      "term-" + id,
		session:   session,
		profileID: p.ID,
		client:    f.Tmux,
		conn:      conn,
		buf:       NewBuffer(rows, cols),
		scroll:    NewScrollback(f.Tmux, session, settings.ScrollbackLines),
		focus:     f.Focus,
		redraw:    redraw,
		log:       f.Log.With().Str("session", session).Logger(),
		settings:  settings,
		done:      make(chan struct{}),
	}
	go t.pump()

	t.log.Debug().Str("profile", p.Name).Msg("surface started")
	return t, nil
}
