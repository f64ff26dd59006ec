// Package pane implements the split-pane tree: leaves host one terminal
// surface, splits own two child panes along an axis.
//
// A node changes shape in place (leaf to split on Split, split to leaf or to a
// split of its grandchildren on CloseChild), so whoever holds a *Pane keeps a
// valid handle across restructuring. All methods must be called on the
// goroutine behind Env.Dispatcher.
package pane

import (
	"github.com/abdullathedruid/splitmux/internal/profile"
)

// SplitState is the shape of a node: a leaf, or a split along an axis.
type SplitState int

const (
	// SplitNone marks a leaf.
	SplitNone SplitState = iota
	// SplitVertical places children left and right.
	SplitVertical
	// SplitHorizontal places children top and bottom.
	SplitHorizontal
)

// String returns the human-readable split name.
func (s SplitState) String() string {
	switch s {
	case SplitNone:
		return "none"
	case SplitVertical:
		return "vertical"
	case SplitHorizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Pane is one node of the tree. Exactly one of leaf and split is set on a
// live node; both are nil once the node has been discarded or merged.
type Pane struct {
	env   *Env
	root  Container
	leaf  *leaf
	split *split

	lastFocused bool
	closed      Event

	// mergedInto is set when this node's content moved into its parent
	// during a collapse. Notifications still queued for this node follow it.
	mergedInto *Pane
}

type leaf struct {
	profile profile.ID
	surface Surface
	sub     *Subscription
}

type split struct {
	axis      SplitState
	separator Visual
	first     *Pane
	second    *Pane
	firstSub  *Subscription
	secondSub *Subscription
}

// New creates a root leaf hosting surface.
func New(env *Env, id profile.ID, surface Surface) *Pane {
	return newLeaf(env, id, surface)
}

func newLeaf(env *Env, id profile.ID, surface Surface) *Pane {
	p := &Pane{
		env:  env,
		root: env.Toolkit.NewContainer(),
	}
	p.attachSurface(id, surface)
	return p
}

// attachSurface makes p a leaf for surface and listens for its session end.
// The handler stays with the surface as it moves between nodes; it finds the
// current owner again when it runs.
func (p *Pane) attachSurface(id profile.ID, surface Surface) {
	p.adopt(&leaf{profile: id, surface: surface})
	p.leaf.sub = surface.OnConnectionClosed(func() {
		p.env.Dispatcher.Post(func() { p.surfaceClosed(surface) })
	})
}

// adopt makes p the leaf for l, keeping l's subscription.
func (p *Pane) adopt(l *leaf) {
	p.root.Attach(l.surface.Visual())
	p.leaf = l
}

// OnClosed registers fn to run when this pane closes. Parents subscribe to
// their children; the application subscribes to the root.
func (p *Pane) OnClosed(fn func()) *Subscription {
	return p.closed.Subscribe(fn)
}

// SplitState returns the node's current shape.
func (p *Pane) SplitState() SplitState {
	if p.split != nil {
		return p.split.axis
	}
	return SplitNone
}

// IsLeaf returns true if the node hosts a surface.
func (p *Pane) IsLeaf() bool {
	return p.leaf != nil
}

// WasLastFocused returns true if this leaf was focused at the last CheckFocus.
func (p *Pane) WasLastFocused() bool {
	return p.lastFocused
}

// Container returns the visual container for this node.
func (p *Pane) Container() Container {
	return p.root
}

// Surface returns the hosted surface, or nil for a split.
func (p *Pane) Surface() Surface {
	if p.leaf == nil {
		return nil
	}
	return p.leaf.surface
}

// Profile returns the profile id of a leaf.
func (p *Pane) Profile() (profile.ID, bool) {
	if p.leaf == nil {
		return profile.Nil, false
	}
	return p.leaf.profile, true
}

// First returns the first (left or top) child of a split, or nil.
func (p *Pane) First() *Pane {
	if p.split == nil {
		return nil
	}
	return p.split.first
}

// Second returns the second (right or bottom) child of a split, or nil.
func (p *Pane) Second() *Pane {
	if p.split == nil {
		return nil
	}
	return p.split.second
}

// Separator returns the divider between a split's children, or nil.
func (p *Pane) Separator() Visual {
	if p.split == nil {
		return nil
	}
	return p.split.separator
}

// HasFocusedDescendant returns true if this pane's surface, or any surface
// below it, currently holds focus.
func (p *Pane) HasFocusedDescendant() bool {
	switch {
	case p.leaf != nil:
		return p.leaf.surface.IsFocused()
	case p.split != nil:
		return p.split.first.HasFocusedDescendant() || p.split.second.HasFocusedDescendant()
	default:
		return false
	}
}

// Split attaches surface next to the focused leaf. On a split node the call
// goes to the child holding focus; if neither does, nothing changes and Split
// returns false. On a leaf the leaf itself splits: its current surface becomes
// the first child and the new one the second.
func (p *Pane) Split(axis SplitState, id profile.ID, surface Surface) bool {
	if axis == SplitNone {
		return false
	}

	if p.split != nil {
		if p.split.first.HasFocusedDescendant() {
			return p.split.first.Split(axis, id, surface)
		}
		if p.split.second.HasFocusedDescendant() {
			return p.split.second.Split(axis, id, surface)
		}
		p.env.Log.Debug().Str("axis", axis.String()).Msg("split skipped: no focused pane")
		return false
	}
	if p.leaf == nil {
		return false
	}

	// The first child takes over the surface and its close notification.
	old := p.leaf
	p.leaf = nil

	p.root.Clear()
	p.root.Partition(axis)

	first := &Pane{env: p.env, root: p.env.Toolkit.NewContainer()}
	first.adopt(old)
	second := newLeaf(p.env, id, surface)
	p.setChildren(axis, p.env.Toolkit.NewSeparator(axis), first, second)
	p.lastFocused = false

	p.env.Log.Debug().
		Str("axis", axis.String()).
		Str("profile", id.String()).
		Msg("split leaf")
	return true
}

// setChildren turns p into a split over first and second, attaches their
// visuals and subscribes to their closed signals.
func (p *Pane) setChildren(axis SplitState, separator Visual, first, second *Pane) {
	p.split = &split{
		axis:      axis,
		separator: separator,
		first:     first,
		second:    second,
	}
	p.root.Attach(first.root)
	p.root.Attach(separator)
	p.root.Attach(second.root)

	p.split.firstSub = p.watchChild(first)
	p.split.secondSub = p.watchChild(second)
}

// watchChild forwards child's closed signal to p through the dispatcher. A
// pane only closes as a leaf, so the surface it held at that moment travels
// with the notification.
func (p *Pane) watchChild(child *Pane) *Subscription {
	return child.OnClosed(func() {
		surface := child.Surface()
		p.env.Dispatcher.Post(func() { p.childClosed(child, surface) })
	})
}

// CloseChild removes one child of a split. If the surviving child is a leaf,
// p becomes that leaf; if it is a split, p adopts its children. Either way p
// keeps its identity.
func (p *Pane) CloseChild(closedIsFirst bool) {
	if p.split == nil {
		p.env.Log.Error().Bool("first", closedIsFirst).Msg("close child called on a leaf")
		return
	}

	sp := p.split
	closed, remaining := sp.first, sp.second
	if !closedIsFirst {
		closed, remaining = sp.second, sp.first
	}

	sp.firstSub.Revoke()
	sp.secondSub.Revoke()
	p.split = nil

	if remaining.leaf != nil {
		p.collapseToLeaf(sp, closed, remaining)
	} else {
		p.absorb(closed, remaining)
	}
}

func (p *Pane) collapseToLeaf(sp *split, closed, remaining *Pane) {
	kept := remaining.leaf
	remaining.leaf = nil
	remaining.mergedInto = p

	p.lastFocused = sp.first.lastFocused || sp.second.lastFocused

	sp.first.root.Clear()
	sp.second.root.Clear()
	p.root.Clear()
	p.root.ResetPartition()
	closed.discard()

	p.adopt(kept)
	if p.lastFocused {
		kept.surface.RequestFocus()
	}

	p.env.Log.Debug().
		Str("profile", kept.profile.String()).
		Bool("focused", p.lastFocused).
		Msg("collapsed split to leaf")
}

func (p *Pane) absorb(closed, remaining *Pane) {
	rs := remaining.split
	rs.firstSub.Revoke()
	rs.secondSub.Revoke()
	remaining.split = nil
	remaining.mergedInto = p

	p.root.Clear()
	p.root.ResetPartition()
	remaining.root.Clear()
	remaining.root.TransferPartition(p.root)
	closed.discard()

	p.setChildren(rs.axis, rs.separator, rs.first, rs.second)

	p.env.Log.Debug().
		Str("axis", rs.axis.String()).
		Msg("absorbed grandchildren")
}

// discard tears down a node that has left the tree.
func (p *Pane) discard() {
	if p.leaf != nil {
		p.leaf.sub.Revoke()
		p.leaf = nil
	}
	if p.split != nil {
		p.split.firstSub.Revoke()
		p.split.secondSub.Revoke()
		p.split.first.discard()
		p.split.second.discard()
		p.split = nil
	}
	p.root.Clear()
	p.root.ResetPartition()
}

// resolve follows collapse merges to the node that now holds p's content.
func (p *Pane) resolve() *Pane {
	for p.mergedInto != nil {
		p = p.mergedInto
	}
	return p
}

// surfaceClosed runs on the owning goroutine after a surface's session ended.
// The surface may have moved since the notification was posted, so the leaf
// that owns it now is looked up again.
func (p *Pane) surfaceClosed(surface Surface) {
	owner := p.resolve().leafFor(surface)
	if owner == nil {
		p.env.Log.Debug().Msg("dropped close notification for a released surface")
		return
	}
	if !surface.CloseOnExit() {
		return
	}
	owner.closed.Raise()
}

// childClosed runs on the owning goroutine after child raised closed while
// hosting surface. The tree may have changed shape since: child may have been
// split, or merged into target. Only the leaf that still hosts surface closes.
func (p *Pane) childClosed(child *Pane, surface Surface) {
	target := p.resolve()

	if target.split != nil && (child == target.split.first || child == target.split.second) {
		switch owner := child.leafFor(surface); owner {
		case nil:
			p.env.Log.Debug().Msg("dropped child close notification for a released surface")
		case child:
			target.CloseChild(child == target.split.first)
		default:
			// child was split after it closed; close the leaf now holding surface
			owner.closed.Raise()
		}
		return
	}

	// child merged into target before this ran; the closure is target's now.
	if child.resolve() == target {
		if owner := target.leafFor(surface); owner != nil {
			owner.closed.Raise()
			return
		}
	}

	p.env.Log.Debug().Msg("dropped stale child close notification")
}

func (p *Pane) leafFor(surface Surface) *Pane {
	var found *Pane
	p.Walk(func(n *Pane) bool {
		if n.leaf != nil && n.leaf.surface == surface {
			found = n
			return false
		}
		return true
	})
	return found
}

// CheckFocus recomputes lastFocused for the whole subtree from the surfaces.
func (p *Pane) CheckFocus() {
	if p.leaf != nil {
		p.lastFocused = p.leaf.surface.IsFocused()
		return
	}
	p.lastFocused = false
	if p.split != nil {
		p.split.first.CheckFocus()
		p.split.second.CheckFocus()
	}
}

// CheckUpdateSettings pushes settings to every leaf created from profile id.
func (p *Pane) CheckUpdateSettings(settings profile.Settings, id profile.ID) {
	if p.split != nil {
		p.split.first.CheckUpdateSettings(settings, id)
		p.split.second.CheckUpdateSettings(settings, id)
		return
	}
	if p.leaf != nil && p.leaf.profile == id {
		p.leaf.surface.UpdateSettings(settings)
	}
}

// GetLastFocusedSurface returns the surface that was focused at the last
// CheckFocus, or nil. The first child is searched before the second.
func (p *Pane) GetLastFocusedSurface() Surface {
	if p.leaf != nil {
		if p.lastFocused {
			return p.leaf.surface
		}
		return nil
	}
	if p.split == nil {
		return nil
	}
	if s := p.split.first.GetLastFocusedSurface(); s != nil {
		return s
	}
	return p.split.second.GetLastFocusedSurface()
}

// GetLastFocusedProfile returns the profile of the last focused leaf.
func (p *Pane) GetLastFocusedProfile() (profile.ID, bool) {
	if p.leaf != nil {
		if p.lastFocused {
			return p.leaf.profile, true
		}
		return profile.Nil, false
	}
	if p.split == nil {
		return profile.Nil, false
	}
	if id, ok := p.split.first.GetLastFocusedProfile(); ok {
		return id, true
	}
	return p.split.second.GetLastFocusedProfile()
}
