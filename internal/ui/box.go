package ui

import (
	"fmt"

	"github.com/abdullathedruid/splitmux/internal/pane"
)

// Box is the container a pane node renders into. An unpartitioned box shows
// its single child; a partitioned box lays out first, separator and second
// along its axis.
type Box struct {
	id       int
	axis     pane.SplitState
	split    bool
	children []pane.Visual
}

// Attach appends v to the box's children.
func (b *Box) Attach(v pane.Visual) {
	b.children = append(b.children, v)
}

// Clear detaches every child.
func (b *Box) Clear() {
	b.children = nil
}

// Partition divides the box into three slots along axis.
func (b *Box) Partition(axis pane.SplitState) {
	b.axis = axis
	b.split = true
}

// ResetPartition returns the box to a single slot.
func (b *Box) ResetPartition() {
	b.axis = pane.SplitNone
	b.split = false
}

// TransferPartition moves this box's slot definitions into dst. dst must be a
// Box from the same toolkit; anything else panics and leaves b unchanged.
func (b *Box) TransferPartition(dst pane.Container) {
	d, ok := dst.(*Box)
	if !ok {
		panic(fmt.Sprintf("ui: transfer partition of %s into foreign container %T", b, dst))
	}
	d.axis, d.split = b.axis, b.split
	b.ResetPartition()
}

// Children returns the attached visuals.
func (b *Box) Children() []pane.Visual {
	return b.children
}

// Axis returns the partition axis, or SplitNone.
func (b *Box) Axis() pane.SplitState {
	if !b.split {
		return pane.SplitNone
	}
	return b.axis
}

func (b *Box) String() string {
	return fmt.Sprintf("box-%d", b.id)
}

// Separator is the divider view between the two halves of a split.
type Separator struct {
	name string
	axis pane.SplitState
}

// ViewName is the gocui view the separator draws into.
func (s *Separator) ViewName() string { return s.name }

// Axis is the axis of the split the separator divides.
func (s *Separator) Axis() pane.SplitState { return s.axis }

// Toolkit creates boxes and separators. It is used only on the UI goroutine.
type Toolkit struct {
	next int
}

// NewToolkit returns a toolkit with fresh view names.
func NewToolkit() *Toolkit {
	return &Toolkit{}
}

// NewContainer returns an empty, unpartitioned box.
func (t *Toolkit) NewContainer() pane.Container {
	t.next++
	return &Box{id: t.next}
}

// NewSeparator returns a divider for a split along axis.
func (t *Toolkit) NewSeparator(axis pane.SplitState) pane.Visual {
	t.next++
	return &Separator{name: fmt.Sprintf("sep-%d", t.next), axis: axis}
}
