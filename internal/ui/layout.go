package ui

import (
	"github.com/jesseduffield/lazycore/pkg/boxlayout"

	"github.com/abdullathedruid/splitmux/internal/pane"
	"github.com/abdullathedruid/splitmux/internal/surface"
)

// Content is a visual that renders into its own framed view.
type Content interface {
	ViewName() string
	Title() string
	Resize(cols, rows int)
	Render(rows int) (surface.Frame, error)
}

// Layout represents the position and size of a view in screen coordinates.
type Layout struct {
	X0, Y0, X1, Y1 int
}

// FromDimensions converts a boxlayout cell range to view coordinates.
func FromDimensions(d boxlayout.Dimensions) Layout {
	return Layout{X0: d.X0, Y0: d.Y0, X1: d.X1, Y1: d.Y1}
}

// Width returns the interior width (excluding borders).
func (l Layout) Width() int {
	w := l.X1 - l.X0 - 1
	if w < 1 {
		return 1
	}
	return w
}

// Height returns the interior height (excluding borders).
func (l Layout) Height() int {
	h := l.Y1 - l.Y0 - 1
	if h < 1 {
		return 1
	}
	return h
}

// Frameless grows the layout by one cell on each side, so a view without a
// frame covers exactly the allotted cells.
func (l Layout) Frameless() Layout {
	return Layout{X0: l.X0 - 1, Y0: l.Y0 - 1, X1: l.X1 + 1, Y1: l.Y1 + 1}
}

// Drawable reports whether gocui can place a framed view here.
func (l Layout) Drawable() bool {
	return l.X1 > l.X0 && l.Y1 > l.Y0
}

// BoxTree converts a pane container tree into a boxlayout tree. Vertical splits
// put their children side by side, horizontal splits stack them. Empty boxes
// yield nil.
func BoxTree(v pane.Visual, separatorSize int) *boxlayout.Box {
	switch v := v.(type) {
	case *Box:
		if v.Axis() != pane.SplitNone && len(v.children) == 3 {
			direction := boxlayout.COLUMN
			if v.axis == pane.SplitHorizontal {
				direction = boxlayout.ROW
			}
			var children []*boxlayout.Box
			for _, c := range v.children {
				if b := BoxTree(c, separatorSize); b != nil {
					children = append(children, b)
				}
			}
			return &boxlayout.Box{Direction: direction, Weight: 1, Children: children}
		}
		for _, c := range v.children {
			if b := BoxTree(c, separatorSize); b != nil {
				return b
			}
		}
		return nil
	case *Separator:
		return &boxlayout.Box{Window: v.name, Size: separatorSize}
	case Content:
		return &boxlayout.Box{Window: v.ViewName(), Weight: 1}
	default:
		return nil
	}
}

// Arrange lays the tree out over a width x height screen.
func Arrange(root pane.Visual, separatorSize, width, height int) map[string]Layout {
	tree := BoxTree(root, separatorSize)
	if tree == nil || width <= 0 || height <= 0 {
		return map[string]Layout{}
	}

	dims := boxlayout.ArrangeWindows(tree, 0, 0, width, height)
	layouts := make(map[string]Layout, len(dims))
	for name, d := range dims {
		layouts[name] = FromDimensions(d)
	}
	return layouts
}

// Visuals indexes every named visual under root.
func Visuals(root pane.Visual) map[string]pane.Visual {
	out := make(map[string]pane.Visual)
	var walk func(v pane.Visual)
	walk = func(v pane.Visual) {
		switch v := v.(type) {
		case *Box:
			for _, c := range v.children {
				walk(c)
			}
		case *Separator:
			out[v.name] = v
		case Content:
			out[v.ViewName()] = v
		}
	}
	walk(root)
	return out
}
