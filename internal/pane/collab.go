package pane

import (
	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/profile"
)

// Visual is anything the visual binding can place inside a Container.
type Visual interface{}

// Surface is the interactive session hosted by a leaf pane.
type Surface interface {
	// OnConnectionClosed registers fn to run when the session ends. It may be
	// invoked from any goroutine, at most once per surface. Subscribing after
	// the session ended runs fn immediately.
	OnConnectionClosed(fn func()) *Subscription
	// CloseOnExit reports whether the pane should close when the session ends.
	CloseOnExit() bool
	IsFocused() bool
	RequestFocus()
	UpdateSettings(settings profile.Settings)
	Visual() Visual
}

// Container is the per-node visual slot a pane renders into. A leaf's
// container holds the surface visual; a split's container is partitioned
// into first, separator and second slots along its axis.
type Container interface {
	Visual
	Attach(v Visual)
	Clear()
	Partition(axis SplitState)
	ResetPartition()
	// TransferPartition moves this container's slot definitions into dst,
	// leaving this container unpartitioned.
	TransferPartition(dst Container)
}

// Toolkit builds the visual pieces a pane needs.
type Toolkit interface {
	NewContainer() Container
	NewSeparator(axis SplitState) Visual
}

// Dispatcher runs work on the goroutine that owns the tree.
type Dispatcher interface {
	Post(fn func())
}

// Env is shared by every node of one tree.
type Env struct {
	Toolkit    Toolkit
	Dispatcher Dispatcher
	Log        zerolog.Logger
}
