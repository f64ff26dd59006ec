// Package app wires the pane tree, the gocui screen and the tmux-backed
// terminals into the running multiplexer.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abdullathedruid/splitmux/internal/config"
	"github.com/abdullathedruid/splitmux/internal/input"
	"github.com/abdullathedruid/splitmux/internal/logging"
	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/profile"
	"github.com/abdullathedruid/splitmux/internal/surface"
	"github.com/abdullathedruid/splitmux/internal/tmux"
	"github.com/abdullathedruid/splitmux/internal/ui"
)

// Options tunes a new App.
type Options struct {
	// Profile names the profile for the first pane and for splits. Empty
	// means the config's default profile.
	Profile string
	// ConfigPath is watched for changes. Empty disables reloading.
	ConfigPath string
	Log        zerolog.Logger
}

// App is the running multiplexer: one tab, one pane tree.
type App struct {
	gui        *gocui.Gui
	config     *config.Config
	profile    profile.Profile
	input      *input.Handler
	screen     *ui.Screen
	dispatcher ui.Dispatcher
	factory    *surface.Factory
	root       *pane.Pane
	watcher    *config.Watcher
	log        zerolog.Logger
}

// New checks tmux, creates the GUI and starts the first terminal.
func New(cfg *config.Config, opts Options) (*App, error) {
	name := opts.Profile
	if name == "" {
		name = cfg.DefaultProfile
	}
	p, err := cfg.Profile(name)
	if err != nil {
		return nil, err
	}

	client := tmux.NewClient()
	v, err := client.Version()
	if err != nil {
		return nil, fmt.Errorf("tmux not available: %w", err)
	}
	if !tmux.SupportsControlMode(v) {
		return nil, fmt.Errorf("tmux %s does not support control mode", v)
	}

	g, err := gocui.NewGui(gocui.NewGuiOpts{
		OutputMode: gocui.OutputTrue,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing GUI: %w", err)
	}

	a := &App{
		gui:        g,
		config:     cfg,
		profile:    p,
		input:      input.NewHandler(),
		dispatcher: ui.Dispatcher{Gui: g},
		log:        opts.Log,
	}
	a.screen = ui.NewScreen(ui.ScreenOptions{
		Theme:         themeFromConfig(cfg.Theme),
		SeparatorSize: cfg.SeparatorSize,
		Mode:          a.input.Mode,
		Editor:        a.terminalEditor,
		Log:           logging.WithComponent(opts.Log, "screen"),
	})
	a.factory = &surface.Factory{
		Tmux:   client,
		Dial:   surface.ControlModeDialer,
		Focus:  a.screen,
		Redraw: a.dispatcher.Redraw,
		Prefix: cfg.SessionPrefix,
		Log:    logging.WithComponent(opts.Log, "surface"),
	}

	maxX, maxY := g.Size()
	term, err := a.factory.New(p, maxX-2, maxY-2)
	if err != nil {
		g.Close()
		return nil, err
	}

	env := &pane.Env{
		Toolkit:    ui.NewToolkit(),
		Dispatcher: a.dispatcher,
		Log:        logging.WithComponent(opts.Log, "pane"),
	}
	a.root = pane.New(env, p.ID, term)
	a.root.OnClosed(a.rootClosed)
	term.RequestFocus()
	a.root.CheckFocus()

	if opts.ConfigPath != "" {
		if err := a.watchConfig(opts.ConfigPath); err != nil {
			// Non-fatal, run without live reload
			a.log.Warn().Err(err).Str("path", opts.ConfigPath).Msg("config watch disabled")
		}
	}

	return a, nil
}

// Run starts the main event loop and returns when the last pane closes or
// the user quits.
func (a *App) Run() error {
	defer a.Close()

	a.gui.SetManagerFunc(a.layout)

	if err := a.setupKeybindings(); err != nil {
		return fmt.Errorf("setting up keybindings: %w", err)
	}

	// Handle SIGINT/SIGTERM for clean exit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			a.gui.Update(func(g *gocui.Gui) error {
				return gocui.ErrQuit
			})
		}
	}()

	a.log.Info().Str("profile", a.profile.Name).Msg("started")
	if err := a.gui.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}

// Close stops the config watcher, ends every tmux session and releases the
// terminal.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	// Each shutdown waits on tmux, so end the sessions in parallel
	var g errgroup.Group
	g.SetLimit(8)
	for _, leaf := range a.root.Leaves() {
		if t, ok := leaf.Surface().(*surface.Terminal); ok {
			g.Go(func() error {
				t.Shutdown()
				return nil
			})
		}
	}
	g.Wait()
	a.gui.Close()
	a.log.Info().Msg("stopped")
}

// layout is the gocui manager function.
func (a *App) layout(g *gocui.Gui) error {
	ensureFocus(a.root)
	return a.screen.Draw(g, a.root.Container())
}

// rootClosed runs on the UI goroutine once the last pane has gone.
func (a *App) rootClosed() {
	a.log.Info().Msg("last pane closed")
	a.gui.Update(func(*gocui.Gui) error {
		return gocui.ErrQuit
	})
}

// split opens a new terminal beside the focused one.
func (a *App) split(axis pane.SplitState) error {
	a.root.CheckFocus()
	if a.root.GetLastFocusedSurface() == nil {
		return nil
	}

	maxX, maxY := a.gui.Size()
	cols, rows := maxX-2, maxY-2
	if axis == pane.SplitVertical {
		cols /= 2
	} else {
		rows /= 2
	}

	term, err := a.factory.New(a.profile, cols, rows)
	if err != nil {
		a.log.Error().Err(err).Str("axis", axis.String()).Msg("split")
		return nil
	}
	if !a.root.Split(axis, a.profile.ID, term) {
		term.Shutdown()
		return nil
	}
	term.RequestFocus()
	a.root.CheckFocus()
	return nil
}

// closeFocused ends the focused terminal's session; the tree collapses when
// the connection-closed notification arrives.
func (a *App) closeFocused() error {
	a.root.CheckFocus()
	t, ok := a.root.GetLastFocusedSurface().(*surface.Terminal)
	if !ok {
		return nil
	}
	if err := t.Close(); err != nil {
		a.log.Warn().Err(err).Str("session", t.Session()).Msg("close pane")
	}
	return nil
}

// focusedTerminal returns the terminal holding keyboard focus, if any.
func (a *App) focusedTerminal() *surface.Terminal {
	a.root.CheckFocus()
	t, _ := a.root.GetLastFocusedSurface().(*surface.Terminal)
	return t
}

// cycleFocus moves focus delta leaves along the reading order, wrapping.
func cycleFocus(root *pane.Pane, delta int) {
	leaves := root.Leaves()
	if len(leaves) == 0 {
		return
	}
	current := -1
	for i, leaf := range leaves {
		if leaf.Surface().IsFocused() {
			current = i
			break
		}
	}
	next := 0
	if current >= 0 {
		n := len(leaves)
		next = ((current+delta)%n + n) % n
	}
	leaves[next].Surface().RequestFocus()
	root.CheckFocus()
}

// ensureFocus gives focus to the first leaf when the focused terminal has left
// the tree.
func ensureFocus(root *pane.Pane) {
	if root.HasFocusedDescendant() {
		return
	}
	leaves := root.Leaves()
	if len(leaves) == 0 {
		return
	}
	leaves[0].Surface().RequestFocus()
	root.CheckFocus()
}
