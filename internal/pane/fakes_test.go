package pane

import (
	"github.com/rs/zerolog"

	"github.com/abdullathedruid/splitmux/internal/profile"
)

// focusState is the single focus owner shared by a harness's surfaces.
type focusState struct {
	current *fakeSurface
}

type fakeSurface struct {
	name        string
	focus       *focusState
	forced      bool
	closeOnExit bool
	exited      Event
	ended       bool
	visual      *fakeVisual

	updates       []profile.Settings
	focusRequests int
}

type fakeVisual struct {
	name string
}

func (s *fakeSurface) OnConnectionClosed(fn func()) *Subscription {
	if s.ended {
		fn()
		return &Subscription{}
	}
	return s.exited.Subscribe(fn)
}

func (s *fakeSurface) CloseOnExit() bool { return s.closeOnExit }

func (s *fakeSurface) IsFocused() bool {
	return s.forced || s.focus.current == s
}

func (s *fakeSurface) RequestFocus() {
	s.focusRequests++
	s.focus.current = s
}

func (s *fakeSurface) UpdateSettings(settings profile.Settings) {
	s.updates = append(s.updates, settings)
}

func (s *fakeSurface) Visual() Visual { return s.visual }

func (s *fakeSurface) String() string { return s.name }

// exit simulates the session ending.
func (s *fakeSurface) exit() {
	s.ended = true
	s.exited.Raise()
}

type fakeContainer struct {
	children []Visual
	axis     SplitState
	slots    int
}

func (c *fakeContainer) Attach(v Visual) { c.children = append(c.children, v) }

func (c *fakeContainer) Clear() { c.children = nil }

func (c *fakeContainer) Partition(axis SplitState) {
	c.axis = axis
	c.slots = 3
}

func (c *fakeContainer) ResetPartition() {
	c.axis = SplitNone
	c.slots = 0
}

func (c *fakeContainer) TransferPartition(dst Container) {
	d := dst.(*fakeContainer)
	d.axis, d.slots = c.axis, c.slots
	c.ResetPartition()
}

type fakeSeparator struct {
	axis SplitState
}

type fakeToolkit struct {
	containers int
	separators int
}

func (k *fakeToolkit) NewContainer() Container {
	k.containers++
	return &fakeContainer{}
}

func (k *fakeToolkit) NewSeparator(axis SplitState) Visual {
	k.separators++
	return &fakeSeparator{axis: axis}
}

// queue is a dispatcher that only runs work when drained, so tests can
// observe the tree between a notification and its handling.
type queue struct {
	tasks []func()
}

func (q *queue) Post(fn func()) { q.tasks = append(q.tasks, fn) }

// drain runs queued work, including work queued while draining.
func (q *queue) drain() int {
	n := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
		n++
	}
	return n
}

type harness struct {
	env   *Env
	queue *queue
	kit   *fakeToolkit
	focus *focusState
}

func newHarness() *harness {
	q := &queue{}
	kit := &fakeToolkit{}
	return &harness{
		env:   &Env{Toolkit: kit, Dispatcher: q, Log: zerolog.Nop()},
		queue: q,
		kit:   kit,
		focus: &focusState{},
	}
}

func (h *harness) surface(name string) *fakeSurface {
	return &fakeSurface{
		name:        name,
		focus:       h.focus,
		closeOnExit: true,
		visual:      &fakeVisual{name: name},
	}
}

func (h *harness) focusOn(s *fakeSurface) { h.focus.current = s }

func (h *harness) clearFocus() { h.focus.current = nil }

var (
	shellProfile = profile.New("shell", "bash")
	logsProfile  = profile.New("logs", "tail -f /var/log/syslog")
)
