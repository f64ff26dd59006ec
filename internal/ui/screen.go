package ui

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/input"
	"github.com/abdullathedruid/splitmux/internal/pane"
)

// Screen draws a pane tree with gocui and owns keyboard focus.
type Screen struct {
	mu            sync.Mutex
	focused       string
	theme         Theme
	separatorSize int

	placed map[string]bool
	mode   func() input.Mode
	editor func(Content) gocui.Editor
	log    zerolog.Logger
}

// ScreenOptions configures a Screen.
type ScreenOptions struct {
	Theme         Theme
	SeparatorSize int
	// Mode reports the current input mode for frame styling.
	Mode func() input.Mode
	// Editor returns the key handler for a terminal view, or nil.
	Editor func(Content) gocui.Editor
	Log    zerolog.Logger
}

// NewScreen creates a screen with nothing focused.
func NewScreen(opts ScreenOptions) *Screen {
	if opts.SeparatorSize < 1 {
		opts.SeparatorSize = 1
	}
	if opts.Mode == nil {
		opts.Mode = func() input.Mode { return input.ModeNormal }
	}
	return &Screen{
		theme:         opts.Theme,
		separatorSize: opts.SeparatorSize,
		placed:        make(map[string]bool),
		mode:          opts.Mode,
		editor:        opts.Editor,
		log:           opts.Log,
	}
}

// IsFocused reports whether name holds keyboard focus.
func (s *Screen) IsFocused(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return name != "" && s.focused == name
}

// Focus moves keyboard focus to name. The view becomes current on the next layout.
func (s *Screen) Focus(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = name
}

// Focused returns the focused view name.
func (s *Screen) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// SetTheme replaces the frame colors.
func (s *Screen) SetTheme(theme Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// SetSeparatorSize changes the separator thickness in cells.
func (s *Screen) SetSeparatorSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.separatorSize = max(size, 1)
}

// Draw places and renders every view of the tree rooted at root, and removes
// views that left the tree.
func (s *Screen) Draw(g *gocui.Gui, root pane.Visual) error {
	s.mu.Lock()
	theme, sepSize, focused := s.theme, s.separatorSize, s.focused
	s.mu.Unlock()

	maxX, maxY := g.Size()
	layouts := Arrange(root, sepSize, maxX, maxY)
	visuals := Visuals(root)
	mode := s.mode()

	seen := make(map[string]bool, len(layouts))
	for name, l := range layouts {
		switch v := visuals[name].(type) {
		case *Separator:
			if err := s.drawSeparator(g, v, l, theme); err != nil {
				return err
			}
		case Content:
			if err := s.drawContent(g, v, l, name == focused, mode, theme); err != nil {
				return err
			}
		default:
			continue
		}
		seen[name] = true
	}

	for name := range s.placed {
		if !seen[name] {
			if err := g.DeleteView(name); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
				return err
			}
		}
	}
	s.placed = seen

	if !seen[focused] {
		g.Cursor = false
		return nil
	}
	if _, err := g.SetCurrentView(focused); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	return nil
}

func (s *Screen) drawSeparator(g *gocui.Gui, sep *Separator, l Layout, theme Theme) error {
	f := l.Frameless()
	v, err := g.SetView(sep.name, f.X0, f.Y0, f.X1, f.Y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	ConfigureSeparatorView(v, sep, l, theme)
	return nil
}

func (s *Screen) drawContent(g *gocui.Gui, c Content, l Layout, active bool, mode input.Mode, theme Theme) error {
	name := c.ViewName()
	if !l.Drawable() {
		if err := g.DeleteView(name); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		return nil
	}

	v, err := g.SetView(name, l.X0, l.Y0, l.X1, l.Y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}

	c.Resize(l.Width(), l.Height())
	ConfigurePaneView(v, c.Title(), active, mode, theme)
	if s.editor != nil {
		v.Editor = s.editor(c)
	}

	frame, err := RenderContent(v, c, l.Height())
	if err != nil {
		// Dropped frame; the next output redraws
		s.log.Debug().Err(err).Str("view", name).Msg("render")
		return nil
	}

	if active {
		if mode.IsTerminal() && frame.CursorVisible {
			v.SetCursor(frame.CursorX, frame.CursorY)
			g.Cursor = true
		} else {
			g.Cursor = false
		}
	}
	return nil
}

// Dispatcher posts work onto the gocui main loop.
type Dispatcher struct {
	Gui *gocui.Gui
}

// Post queues fn to run on the UI goroutine.
func (d Dispatcher) Post(fn func()) {
	d.Gui.Update(func(*gocui.Gui) error {
		fn()
		return nil
	})
}

// Redraw requests a layout pass from any goroutine.
func (d Dispatcher) Redraw() {
	d.Gui.Update(func(*gocui.Gui) error { return nil })
}
