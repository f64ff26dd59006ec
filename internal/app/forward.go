package app

import (
	"github.com/jesseduffield/gocui"
	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/config"
	"github.com/abdullathedruid/splitmux/internal/input"
)

// keySender is the part of a terminal that accepts keystrokes.
type keySender interface {
	SendKeys(keys string) error
	SendLiteralKeys(keys string) error
}

// forwardKey sends one key event to s. It returns false for keys tmux has no
// name for, so gocui can try its own bindings.
func forwardKey(s keySender, key gocui.Key, ch rune, mod gocui.Modifier, log zerolog.Logger) bool {
	stroke, ok := input.Translate(key, ch, mod)
	if !ok {
		return false
	}
	var err error
	if stroke.Literal != "" {
		err = s.SendLiteralKeys(stroke.Literal)
	} else {
		err = s.SendKeys(stroke.Keys)
	}
	if err != nil {
		log.Debug().Err(err).Msg("forward key")
	}
	return true
}

// matchesKey reports whether an event is the configured key k.
func matchesKey(k config.Key, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	if mod != k.Mod {
		return false
	}
	if k.IsRune() {
		return ch == k.Rune()
	}
	return ch == 0 && key == k.GocuiKey()
}
