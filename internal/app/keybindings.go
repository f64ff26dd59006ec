package app

import (
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/splitmux/internal/config"
	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/ui"
)

// scrollStep is how many lines one scroll key moves.
const scrollStep = 10

// setupKeybindings binds the normal-mode commands from the config. In
// terminal mode the focused view is editable and its editor takes every key
// except the normal-mode key.
func (a *App) setupKeybindings() error {
	g := a.gui
	keys := a.config.Keys

	// Normal-mode-only commands
	commands := []struct {
		key    string
		action func() error
	}{
		{keys.SplitVertical, func() error { return a.split(pane.SplitVertical) }},
		{keys.SplitHorizontal, func() error { return a.split(pane.SplitHorizontal) }},
		{keys.FocusNext, func() error { cycleFocus(a.root, 1); return nil }},
		{keys.FocusPrev, func() error { cycleFocus(a.root, -1); return nil }},
		{keys.ClosePane, a.closeFocused},
		{keys.TerminalMode, a.enterTerminalMode},
		{keys.ScrollUp, func() error { return a.scroll(scrollStep) }},
		{keys.ScrollDown, func() error { return a.scroll(-scrollStep) }},
		{keys.Quit, func() error { return gocui.ErrQuit }},
	}

	for _, cmd := range commands {
		action := cmd.action
		key := config.MustParseKey(cmd.key)
		if err := g.SetKeybinding("", key.Binding(), key.Mod, func(g *gocui.Gui, v *gocui.View) error {
			if !a.input.Mode().IsNormal() {
				return nil
			}
			return action()
		}); err != nil {
			return err
		}
	}

	// Leave terminal mode (works in both modes)
	normal := config.MustParseKey(keys.NormalMode)
	if err := g.SetKeybinding("", normal.Binding(), normal.Mod, func(g *gocui.Gui, v *gocui.View) error {
		a.input.EnterNormalMode()
		return nil
	}); err != nil {
		return err
	}

	return nil
}

// enterTerminalMode starts forwarding keys, jumping back to live output.
func (a *App) enterTerminalMode() error {
	if t := a.focusedTerminal(); t != nil {
		t.Scrollback().ScrollToBottom()
	}
	a.input.EnterTerminalMode()
	return nil
}

// scroll moves the focused terminal's scrollback; positive is up.
func (a *App) scroll(lines int) error {
	t := a.focusedTerminal()
	if t == nil {
		return nil
	}
	if lines > 0 {
		t.Scrollback().ScrollUp(lines)
	} else {
		t.Scrollback().ScrollDown(-lines)
	}
	return nil
}

// terminalEditor returns the editor for a terminal's view. It forwards keys
// to the session while in terminal mode.
func (a *App) terminalEditor(c ui.Content) gocui.Editor {
	t, ok := c.(keySender)
	if !ok {
		return nil
	}
	normal := config.MustParseKey(a.config.Keys.NormalMode)
	return gocui.EditorFunc(func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
		if !a.input.Mode().IsTerminal() {
			return false
		}
		if matchesKey(normal, key, ch, mod) {
			return false
		}
		return forwardKey(t, key, ch, mod, a.log)
	})
}
