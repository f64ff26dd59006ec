// Package ui binds the pane tree to gocui: boxes and separators are laid out
// with boxlayout, terminals draw into framed views.
package ui

import (
	"fmt"
	"strings"

	"github.com/jesseduffield/gocui"
	"github.com/mattn/go-runewidth"

	"github.com/abdullathedruid/splitmux/internal/input"
	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/surface"
)

// Theme holds the frame colors.
type Theme struct {
	ActiveFrame   gocui.Attribute
	TerminalFrame gocui.Attribute
	InactiveFrame gocui.Attribute
	Separator     gocui.Attribute
}

// DefaultTheme matches the default config colors.
func DefaultTheme() Theme {
	return Theme{
		ActiveFrame:   gocui.ColorBlue,
		TerminalFrame: gocui.ColorGreen,
		InactiveFrame: gocui.ColorDefault,
		Separator:     gocui.ColorDefault,
	}
}

var (
	heavyFrame = []rune{'━', '┃', '┏', '┓', '┗', '┛'}
	lightFrame = []rune{'─', '│', '┌', '┐', '└', '┘'}
)

// FrameTitle formats a view title, truncated to fit a frame of the given width.
func FrameTitle(title string, active bool, mode input.Mode, width int) string {
	if active {
		title = fmt.Sprintf("[%s] %s", mode.String(), title)
	}
	// Leave room for the corners and the padding spaces
	avail := width - 4
	if avail < 1 {
		return ""
	}
	if runewidth.StringWidth(title) > avail {
		title = runewidth.Truncate(title, avail, "…")
	}
	return " " + title + " "
}

// ConfigurePaneView sets up a terminal view's frame for its focus and mode.
func ConfigurePaneView(v *gocui.View, title string, isActive bool, mode input.Mode, theme Theme) {
	width, _ := v.Size()
	v.Title = FrameTitle(title, isActive, mode, width+2)
	if isActive {
		v.FrameRunes = heavyFrame
		if mode.IsTerminal() {
			v.FrameColor = theme.TerminalFrame
		} else {
			v.FrameColor = theme.ActiveFrame
		}
	} else {
		v.FrameRunes = lightFrame
		v.FrameColor = theme.InactiveFrame
	}
	v.Frame = true
	v.Wrap = false
	v.Editable = mode.IsTerminal() && isActive
}

// RenderContent draws the terminal's current frame into v.
func RenderContent(v *gocui.View, c Content, rows int) (surface.Frame, error) {
	v.Clear()
	f, err := c.Render(rows)
	if err != nil {
		return surface.Frame{}, err
	}
	fmt.Fprint(v, f.Content)
	return f, nil
}

// SeparatorLine returns the runes filling a separator of cols x rows cells.
func SeparatorLine(axis pane.SplitState, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	if axis == pane.SplitHorizontal {
		line := strings.Repeat("─", cols)
		return strings.TrimSuffix(strings.Repeat(line+"\n", rows), "\n")
	}
	line := strings.Repeat("│", cols)
	return strings.TrimSuffix(strings.Repeat(line+"\n", rows), "\n")
}

// ConfigureSeparatorView draws a frameless separator.
func ConfigureSeparatorView(v *gocui.View, s *Separator, l Layout, theme Theme) {
	v.Frame = false
	v.Wrap = false
	v.Editable = false
	v.FgColor = theme.Separator
	v.Clear()
	fmt.Fprint(v, SeparatorLine(s.axis, l.X1-l.X0+1, l.Y1-l.Y0+1))
}
