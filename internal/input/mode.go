// Package input tracks the modal state of the keyboard and maps key events
// onto tmux key names.
package input

// Mode selects who receives keystrokes: splitmux or the focused terminal.
type Mode int

const (
	// ModeNormal routes keys to pane commands (split, focus, close).
	ModeNormal Mode = iota
	// ModeTerminal forwards keys to the focused terminal.
	ModeTerminal
)

var modeNames = [...]string{
	ModeNormal:   "NORMAL",
	ModeTerminal: "TERMINAL",
}

// String returns the label shown in the focused pane's frame.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "UNKNOWN"
	}
	return modeNames[m]
}

// IsTerminal reports whether keys go to the terminal.
func (m Mode) IsTerminal() bool { return m == ModeTerminal }

// IsNormal reports whether keys go to pane commands.
func (m Mode) IsNormal() bool { return m == ModeNormal }
