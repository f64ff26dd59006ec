package input

import (
	"github.com/jesseduffield/gocui"
)

// tmuxKeys maps gocui special keys to tmux send-keys names.
var tmuxKeys = map[gocui.Key]string{
	gocui.KeyEnter:         "Enter",
	gocui.KeyEsc:           "Escape",
	gocui.KeyBackspace:     "BSpace",
	gocui.KeyBackspace2:    "BSpace",
	gocui.KeyDelete:        "DC",
	gocui.KeyInsert:        "IC",
	gocui.KeyHome:          "Home",
	gocui.KeyEnd:           "End",
	gocui.KeyPgup:          "PPage",
	gocui.KeyPgdn:          "NPage",
	gocui.KeySpace:         "Space",
	gocui.KeyTab:           "Tab",
	gocui.KeyArrowUp:       "Up",
	gocui.KeyArrowDown:     "Down",
	gocui.KeyArrowLeft:     "Left",
	gocui.KeyArrowRight:    "Right",
	gocui.KeyF1:            "F1",
	gocui.KeyF2:            "F2",
	gocui.KeyF3:            "F3",
	gocui.KeyF4:            "F4",
	gocui.KeyF5:            "F5",
	gocui.KeyF6:            "F6",
	gocui.KeyF7:            "F7",
	gocui.KeyF8:            "F8",
	gocui.KeyF9:            "F9",
	gocui.KeyF10:           "F10",
	gocui.KeyF11:           "F11",
	gocui.KeyF12:           "F12",
	gocui.KeyCtrlA:         "C-a",
	gocui.KeyCtrlB:         "C-b",
	gocui.KeyCtrlC:         "C-c",
	gocui.KeyCtrlD:         "C-d",
	gocui.KeyCtrlE:         "C-e",
	gocui.KeyCtrlF:         "C-f",
	gocui.KeyCtrlG:         "C-g",
	gocui.KeyCtrlJ:         "C-j",
	gocui.KeyCtrlK:         "C-k",
	gocui.KeyCtrlL:         "C-l",
	gocui.KeyCtrlN:         "C-n",
	gocui.KeyCtrlO:         "C-o",
	gocui.KeyCtrlP:         "C-p",
	gocui.KeyCtrlQ:         "C-q",
	gocui.KeyCtrlR:         "C-r",
	gocui.KeyCtrlS:         "C-s",
	gocui.KeyCtrlT:         "C-t",
	gocui.KeyCtrlU:         "C-u",
	gocui.KeyCtrlV:         "C-v",
	gocui.KeyCtrlW:         "C-w",
	gocui.KeyCtrlX:         "C-x",
	gocui.KeyCtrlY:         "C-y",
	gocui.KeyCtrlZ:         "C-z",
	gocui.KeyCtrlBackslash: "C-\\",
}

// Keystroke is what a terminal view should send for one key event.
type Keystroke struct {
	// Keys is a tmux key name for send-keys, e.g. "C-c".
	Keys string
	// Literal is typed text for send-keys -l.
	Literal string
}

// Translate converts a gocui key event into a keystroke for tmux. ok is false
// for events that have no tmux equivalent.
func Translate(key gocui.Key, ch rune, mod gocui.Modifier) (Keystroke, bool) {
	if ch != 0 {
		if mod == gocui.ModAlt {
			return Keystroke{Keys: "M-" + string(ch)}, true
		}
		return Keystroke{Literal: string(ch)}, true
	}
	name, ok := tmuxKeys[key]
	if !ok {
		return Keystroke{}, false
	}
	if mod == gocui.ModAlt {
		name = "M-" + name
	}
	return Keystroke{Keys: name}, true
}
