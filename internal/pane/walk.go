package pane

import (
	"fmt"
	"strings"
)

// Walk visits the subtree in pre-order, first child before second, and stops
// early when fn returns false. It reports whether the walk ran to completion.
func (p *Pane) Walk(fn func(*Pane) bool) bool {
	if !fn(p) {
		return false
	}
	if p.split == nil {
		return true
	}
	return p.split.first.Walk(fn) && p.split.second.Walk(fn)
}

// Leaves returns the leaf panes in reading order.
func (p *Pane) Leaves() []*Pane {
	var leaves []*Pane
	p.Walk(func(n *Pane) bool {
		if n.leaf != nil {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// LeafCount returns the number of leaf panes.
func (p *Pane) LeafCount() int {
	return len(p.Leaves())
}

// Depth returns the number of levels below and including p.
func (p *Pane) Depth() int {
	if p.split == nil {
		return 1
	}
	return 1 + max(p.split.first.Depth(), p.split.second.Depth())
}

// FindSurface returns the leaf hosting surface, or nil.
func (p *Pane) FindSurface(surface Surface) *Pane {
	return p.leafFor(surface)
}

// String renders the tree shape, e.g. "V(shell*, H(logs, shell))". Leaves
// print their surface when it implements fmt.Stringer; a trailing * marks
// the last focused leaf.
func (p *Pane) String() string {
	var b strings.Builder
	p.format(&b)
	return b.String()
}

func (p *Pane) format(b *strings.Builder) {
	switch {
	case p.leaf != nil:
		if s, ok := p.leaf.surface.(fmt.Stringer); ok {
			b.WriteString(s.String())
		} else {
			b.WriteString("leaf")
		}
		if p.lastFocused {
			b.WriteByte('*')
		}
	case p.split != nil:
		if p.split.axis == SplitVertical {
			b.WriteString("V(")
		} else {
			b.WriteString("H(")
		}
		p.split.first.format(b)
		b.WriteString(", ")
		p.split.second.format(b)
		b.WriteByte(')')
	default:
		b.WriteString("<empty>")
	}
}
