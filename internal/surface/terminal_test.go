package surface

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullathedruid/splitmux/internal/profile"
	"github.com/abdullathedruid/splitmux/internal/tmux"
)

type fakeTmux struct {
	mu       sync.Mutex
	created  []tmux.NewSessionOptions
	killed   []string
	limits   map[string]int
	history  []string
	captures [][2]int
	newErr   error
	conns    map[string]*fakeConn
}

func newFakeTmux() *fakeTmux {
	return &fakeTmux{limits: map[string]int{}, conns: map[string]*fakeConn{}}
}

func (f *fakeTmux) ListSessions() ([]tmux.Session, error) { return nil, nil }

func (f *fakeTmux) NewSession(opts tmux.NewSessionOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newErr != nil {
		return f.newErr
	}
	f.created = append(f.created, opts)
	return nil
}

// KillSession ends the session the way tmux does: the control client sees EOF.
func (f *fakeTmux) KillSession(name string) error {
	f.mu.Lock()
	f.killed = append(f.killed, name)
	conn := f.conns[name]
	f.mu.Unlock()
	if conn != nil {
		conn.end()
	}
	return nil
}

func (f *fakeTmux) HasSession(string) bool { return true }

func (f *fakeTmux) CapturePane(name string, start, end int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captures = append(f.captures, [2]int{start, end})
	return f.history, nil
}

func (f *fakeTmux) SetHistoryLimit(name string, lines int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits[name] = lines
	return nil
}

func (f *fakeTmux) Version() (string, error) { return "3.4", nil }

func (f *fakeTmux) dial(session string, width, height int) (Connection, error) {
	c := &fakeConn{out: make(chan []byte, 16)}
	f.mu.Lock()
	f.conns[session] = c
	f.mu.Unlock()
	return c, nil
}

type fakeConn struct {
	out     chan []byte
	endOnce sync.Once

	mu      sync.Mutex
	resizes [][2]int
	keys    []string
	literal []string
	closed  int
}

func (c *fakeConn) OutputChan() <-chan []byte { return c.out }

func (c *fakeConn) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizes = append(c.resizes, [2]int{width, height})
	return nil
}

func (c *fakeConn) SendKeys(keys string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, keys)
	return nil
}

func (c *fakeConn) SendLiteralKeys(keys string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.literal = append(c.literal, keys)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	c.end()
	return nil
}

func (c *fakeConn) end() { c.endOnce.Do(func() { close(c.out) }) }

type fakeFocus struct {
	mu      sync.Mutex
	current string
}

func (f *fakeFocus) IsFocused(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current == name
}

func (f *fakeFocus) Focus(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = name
}

type fixture struct {
	tmux    *fakeTmux
	focus   *fakeFocus
	factory *Factory
	redraws chan struct{}
}

func newFixture() *fixture {
	fx := &fixture{
		tmux:    newFakeTmux(),
		focus:   &fakeFocus{},
		redraws: make(chan struct{}, 64),
	}
	fx.factory = &Factory{
		Tmux:   fx.tmux,
		Dial:   fx.tmux.dial,
		Focus:  fx.focus,
		Prefix: "splitmux-",
		Log:    zerolog.Nop(),
		Redraw: func() {
			select {
			case fx.redraws <- struct{}{}:
			default:
			}
		},
	}
	return fx
}

func (fx *fixture) conn(t *Terminal) *fakeConn {
	fx.tmux.mu.Lock()
	defer fx.tmux.mu.Unlock()
	return fx.tmux.conns[t.Session()]
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestFactory_New(t *testing.T) {
	fx := newFixture()
	p := profile.New("logs", "tail -f /var/log/syslog")
	p.Dir = "/var/log"

	term, err := fx.factory.New(p, 80, 24)
	require.NoError(t, err)
	defer term.Shutdown()

	require.Len(t, fx.tmux.created, 1)
	opts := fx.tmux.created[0]
	assert.Equal(t, term.Session(), opts.Name)
	assert.Equal(t, "/var/log", opts.Dir)
	assert.Equal(t, "tail -f /var/log/syslog", opts.Command)
	assert.Equal(t, 80, opts.Width)
	assert.Equal(t, 24, opts.Height)
	assert.Equal(t, profile.DefaultScrollbackLines, opts.HistoryLimit)

	assert.Contains(t, term.Session(), "splitmux-")
	assert.Equal(t, p.ID, term.ProfileID())
	assert.Equal(t, "logs", term.Title())
	assert.True(t, term.CloseOnExit())
	assert.Same(t, term, term.Visual())
}

func TestFactory_UniqueSessions(t *testing.T) {
	fx := newFixture()
	a, err := fx.factory.New(profile.New("shell", "sh"), 10, 10)
	require.NoError(t, err)
	defer a.Shutdown()
	b, err := fx.factory.New(profile.New("shell", "sh"), 10, 10)
	require.NoError(t, err)
	defer b.Shutdown()

	assert.NotEqual(t, a.Session(), b.Session())
	assert.NotEqual(t, a.ViewName(), b.ViewName())
}

func TestFactory_NewSessionError(t *testing.T) {
	fx := newFixture()
	fx.tmux.newErr = errors.New("no server")

	_, err := fx.factory.New(profile.New("shell", "sh"), 10, 10)
	assert.ErrorContains(t, err, "no server")
}

func TestFactory_DialErrorKillsSession(t *testing.T) {
	fx := newFixture()
	fx.factory.Dial = func(string, int, int) (Connection, error) {
		return nil, errors.New("pty")
	}

	_, err := fx.factory.New(profile.New("shell", "sh"), 10, 10)
	require.Error(t, err)
	require.Len(t, fx.tmux.created, 1)
	assert.Equal(t, []string{fx.tmux.created[0].Name}, fx.tmux.killed)
}

func TestTerminal_OutputReachesBuffer(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	fx.conn(term).out <- []byte("hello")
	waitClosed(t, fx.redraws)

	assert.Eventually(t, func() bool {
		f, err := term.Render(5)
		return err == nil && strings.Contains(f.Content, "hello")
	}, time.Second, 10*time.Millisecond)
}

func TestTerminal_SessionEndRaisesConnectionClosed(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)

	closed := make(chan struct{})
	term.OnConnectionClosed(func() { close(closed) })

	fx.conn(term).end()
	waitClosed(t, closed)
	waitClosed(t, term.Done())
}

func TestTerminal_SubscribeAfterSessionEnded(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("false", "false"), 20, 5)
	require.NoError(t, err)

	fx.conn(term).end()
	waitClosed(t, term.Done())

	calls := 0
	sub := term.OnConnectionClosed(func() { calls++ })
	assert.Equal(t, 1, calls)
	assert.NotPanics(t, sub.Revoke)
}

func TestTerminal_ShutdownThenSubscribeStaysQuiet(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	term.Shutdown()

	term.OnConnectionClosed(func() { t.Error("detached terminal reported closed") })
}

func TestTerminal_RevokedSubscriptionNotCalled(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)

	sub := term.OnConnectionClosed(func() { t.Error("revoked handler ran") })
	sub.Revoke()

	fx.conn(term).end()
	waitClosed(t, term.Done())
}

func TestTerminal_CloseForcesCloseOnExit(t *testing.T) {
	fx := newFixture()
	keep := false
	p := profile.New("logs", "tail -f x")
	p.CloseOnExit = &keep

	term, err := fx.factory.New(p, 20, 5)
	require.NoError(t, err)
	assert.False(t, term.CloseOnExit())

	closed := make(chan struct{})
	term.OnConnectionClosed(func() { close(closed) })

	require.NoError(t, term.Close())
	waitClosed(t, closed)
	assert.True(t, term.CloseOnExit())
	assert.Equal(t, []string{term.Session()}, fx.tmux.killed)
}

func TestTerminal_ShutdownIsSilent(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)

	term.OnConnectionClosed(func() { t.Error("shutdown raised connection closed") })
	term.Shutdown()

	assert.Equal(t, []string{term.Session()}, fx.tmux.killed)
}

func TestTerminal_Focus(t *testing.T) {
	fx := newFixture()
	a, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer a.Shutdown()
	b, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer b.Shutdown()

	a.RequestFocus()
	assert.True(t, a.IsFocused())
	assert.False(t, b.IsFocused())

	b.RequestFocus()
	assert.False(t, a.IsFocused())
	assert.True(t, b.IsFocused())
}

func TestTerminal_UpdateSettings(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	term.Scrollback().ScrollUp(1500)
	term.UpdateSettings(profile.Settings{Title: "renamed", CloseOnExit: false, ScrollbackLines: 1000})

	assert.False(t, term.CloseOnExit())
	assert.Equal(t, 1000, fx.tmux.limits[term.Session()])
	assert.Equal(t, 1000, term.Scrollback().ScrollPos())
	assert.Equal(t, "renamed [scrollback]", term.Title())
}

func TestTerminal_UpdateSettingsSameLimitSkipsTmux(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	term.UpdateSettings(profile.Settings{Title: "t", CloseOnExit: true, ScrollbackLines: profile.DefaultScrollbackLines})

	_, set := fx.tmux.limits[term.Session()]
	assert.False(t, set)
}

func TestTerminal_ResizeForwards(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	term.Resize(20, 5) // unchanged
	term.Resize(0, 3)  // ignored
	term.Resize(40, 12)

	conn := fx.conn(term)
	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, [][2]int{{40, 12}}, conn.resizes)

	rows, cols := term.buf.Dimensions()
	assert.Equal(t, 12, rows)
	assert.Equal(t, 40, cols)
}

func TestTerminal_RenderScrolledUsesHistory(t *testing.T) {
	fx := newFixture()
	fx.tmux.history = []string{"old 1", "old 2"}
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	term.Scrollback().ScrollUp(10)
	f, err := term.Render(5)
	require.NoError(t, err)

	assert.Equal(t, "old 1\nold 2", f.Content)
	assert.Equal(t, [][2]int{{-15, -10}}, fx.tmux.captures)
}

func TestTerminal_Keys(t *testing.T) {
	fx := newFixture()
	term, err := fx.factory.New(profile.New("shell", "sh"), 20, 5)
	require.NoError(t, err)
	defer term.Shutdown()

	require.NoError(t, term.SendKeys("Enter"))
	require.NoError(t, term.SendLiteralKeys("ls"))

	conn := fx.conn(term)
	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, []string{"Enter"}, conn.keys)
	assert.Equal(t, []string{"ls"}, conn.literal)
}
