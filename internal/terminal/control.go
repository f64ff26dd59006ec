// Package terminal attaches to tmux sessions in control mode (tmux -CC).
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"

	"github.com/abdullathedruid/splitmux/internal/tmux"
)

const (
	outputBuffer = 100
	// maxLine bounds a single control-mode line; a full-screen redraw fits easily.
	maxLine = 1024 * 1024
)

// ControlMode is one control-mode client attached to a session.
type ControlMode struct {
	session string
	output  chan []byte
	done    chan struct{}

	mu  sync.Mutex
	cmd *exec.Cmd
	pty *os.File

	closeOnce  sync.Once
	exitReason string
}

// NewControlMode prepares a client for session. Nothing runs until Start.
func NewControlMode(session string) *ControlMode {
	return &ControlMode{
		session: session,
		output:  make(chan []byte, outputBuffer),
		done:    make(chan struct{}),
	}
}

// Start attaches under a pty of width x height. OutputChan is closed when
// the session ends, tmux exits, or Close is called.
func (c *ControlMode) Start(width, height int) error {
	cmd := exec.Command("tmux", "-CC", "attach-session", "-t", c.session)
	cmd.Env = tmux.Environ()

	// tmux refuses control mode without a terminal
	f, err := pty.StartWithSize(cmd, winsize(width, height))
	if err != nil {
		return fmt.Errorf("attach %s: %w", c.session, err)
	}

	c.mu.Lock()
	c.cmd, c.pty = cmd, f
	c.mu.Unlock()

	go cmd.Wait()
	go c.read(f)

	// A size change forces tmux to send the whole screen
	c.Resize(width-1, height-1)
	c.Resize(width, height)
	return nil
}

func winsize(width, height int) *pty.Winsize {
	return &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
}

// Resize sets the pty size and tells tmux the client size.
func (c *ControlMode) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pty == nil {
		return nil
	}
	if err := pty.Setsize(c.pty, winsize(width, height)); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	_, err := fmt.Fprintf(c.pty, "refresh-client -C %d,%d\n", width, height)
	return err
}

// read turns control-mode lines into output chunks until %exit or EOF.
func (c *ControlMode) read(r io.Reader) {
	defer close(c.output)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		n := parseLine(scanner.Text())
		switch n.kind {
		case kindExit:
			c.mu.Lock()
			c.exitReason = n.reason
			c.mu.Unlock()
			return
		case kindOutput:
			select {
			case c.output <- n.data:
			case <-c.done:
				return
			}
		}
	}
}

// SendKeys sends tmux key names, e.g. "Enter", "C-c", "Up".
func (c *ControlMode) SendKeys(keys string) error {
	return c.command(fmt.Sprintf("send-keys -t %s %s", c.session, keys))
}

// SendLiteralKeys types text into the session.
func (c *ControlMode) SendLiteralKeys(keys string) error {
	return c.command(fmt.Sprintf("send-keys -t %s -l %q", c.session, keys))
}

func (c *ControlMode) command(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pty == nil {
		return fmt.Errorf("control mode for %s not started", c.session)
	}
	_, err := io.WriteString(c.pty, line+"\n")
	return err
}

// OutputChan delivers decoded terminal output.
func (c *ControlMode) OutputChan() <-chan []byte {
	return c.output
}

// Session returns the tmux session name.
func (c *ControlMode) Session() string {
	return c.session
}

// ExitReason returns the reason tmux gave in %exit, if any.
func (c *ControlMode) ExitReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitReason
}

// Close detaches and stops the tmux client. It is safe to call more than once.
func (c *ControlMode) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.pty != nil {
			c.pty.Close()
		}
		if c.cmd != nil && c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
	})
	return nil
}
