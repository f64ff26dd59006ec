package app

import (
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/splitmux/internal/config"
	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/ui"
)

// watchConfig reloads settings whenever the config file changes. Reloaded
// configs are applied on the UI goroutine.
func (a *App) watchConfig(path string) error {
	w, err := config.NewWatcher(path)
	if err != nil {
		return err
	}
	w.OnChange(func(cfg *config.Config) {
		a.gui.Update(func(*gocui.Gui) error {
			a.applyConfig(cfg)
			return nil
		})
	})
	w.OnError(func(err error) {
		a.log.Warn().Err(err).Str("path", path).Msg("config reload failed")
	})
	w.Start()
	a.watcher = w
	return nil
}

// applyConfig pushes a reloaded config into the screen and every live pane.
// Keybindings only change on restart.
func (a *App) applyConfig(cfg *config.Config) {
	if cfg.Keys != a.config.Keys {
		a.log.Info().Msg("keybinding changes apply after restart")
	}
	cfg.Keys = a.config.Keys
	a.config = cfg

	a.screen.SetTheme(themeFromConfig(cfg.Theme))
	a.screen.SetSeparatorSize(cfg.SeparatorSize)
	updateSettings(a.root, cfg)

	if p, err := cfg.Profile(a.profile.Name); err == nil {
		a.profile = p
	}
	a.log.Info().Int("profiles", len(cfg.Profiles)).Msg("config reloaded")
}

// updateSettings pushes each profile's settings to the leaves created from it.
func updateSettings(root *pane.Pane, cfg *config.Config) {
	for _, p := range cfg.Profiles {
		root.CheckUpdateSettings(p.Settings(), p.ID)
	}
}

func themeFromConfig(t config.Theme) ui.Theme {
	return ui.Theme{
		ActiveFrame:   config.Color(t.Colors.ActiveFrame),
		TerminalFrame: config.Color(t.Colors.TerminalFrame),
		InactiveFrame: config.Color(t.Colors.InactiveFrame),
		Separator:     config.Color(t.Colors.Separator),
	}
}
