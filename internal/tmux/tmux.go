// Package tmux provides a wrapper for tmux operations.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Session represents a tmux session.
type Session struct {
	Name        string
	Path        string
	Created     time.Time
	Attached    bool
	WindowCount int
}

// NewSessionOptions describes a detached session to create.
type NewSessionOptions struct {
	Name    string
	Dir     string
	Command string
	Width   int
	Height  int
	// HistoryLimit sets the session's scrollback size when positive.
	HistoryLimit int
}

// Client provides tmux operations.
type Client interface {
	// ListSessions returns all tmux sessions.
	ListSessions() ([]Session, error)
	// NewSession creates a detached session.
	NewSession(opts NewSessionOptions) error
	// KillSession kills the specified session.
	KillSession(name string) error
	// HasSession checks if a session exists.
	HasSession(name string) bool
	// CapturePane returns history lines start..end, relative to the visible bottom.
	CapturePane(name string, start, end int) ([]string, error)
	// SetHistoryLimit changes how many scrollback lines the session keeps.
	SetHistoryLimit(name string, lines int) error
	// Version returns the tmux version string, e.g. "3.4".
	Version() (string, error)
}

// RealClient implements Client using actual tmux commands.
type RealClient struct {
	bin string
}

// NewClient creates a new tmux client.
func NewClient() *RealClient {
	return &RealClient{bin: "tmux"}
}

// run executes tmux with args and returns stdout. stderr is folded into the error.
func (c *RealClient) run(args ...string) (string, error) {
	cmd := exec.Command(c.bin, args...)
	cmd.Env = Environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Environ returns the process environment without TMUX, so splitmux can create and
// attach sessions even when it runs inside tmux itself.
func Environ() []string {
	env := os.Environ()
	out := env[:0:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, "TMUX=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// ListSessions returns all tmux sessions.
func (c *RealClient) ListSessions() ([]Session, error) {
	out, err := c.run("list-sessions", "-F", "#{session_name}\t#{session_path}\t#{session_created}\t#{session_attached}\t#{session_windows}")
	if err != nil {
		// No sessions is not an error
		if strings.Contains(err.Error(), "no server running") ||
			strings.Contains(err.Error(), "no sessions") {
			return nil, nil
		}
		return nil, err
	}
	return parseSessions(out), nil
}

// WithPrefix filters sessions down to the ones whose name starts with prefix.
func WithPrefix(sessions []Session, prefix string) []Session {
	var out []Session
	for _, s := range sessions {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// parseSessions parses tmux list-sessions output.
func parseSessions(output string) []Session {
	var sessions []Session
	lines := strings.Split(strings.TrimSpace(output), "\n")

	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			continue
		}

		created := time.Now()
		if epoch, err := parseUnixTimestamp(parts[2]); err == nil {
			created = epoch
		}

		windowCount, err := strconv.Atoi(parts[4])
		if err != nil {
			windowCount = 1
		}

		sessions = append(sessions, Session{
			Name:        parts[0],
			Path:        parts[1],
			Created:     created,
			Attached:    parts[3] != "0",
			WindowCount: windowCount,
		})
	}

	return sessions
}

func parseUnixTimestamp(s string) (time.Time, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}

// newSessionArgs builds the new-session command line for opts.
func newSessionArgs(opts NewSessionOptions) []string {
	args := []string{"new-session", "-d", "-s", opts.Name}
	if opts.Dir != "" {
		args = append(args, "-c", opts.Dir)
	}
	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, "-x", strconv.Itoa(opts.Width), "-y", strconv.Itoa(opts.Height))
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}
	return args
}

// NewSession creates a detached session. The session ends when its command exits.
func (c *RealClient) NewSession(opts NewSessionOptions) error {
	if opts.Name == "" {
		return fmt.Errorf("tmux new-session: empty session name")
	}
	if _, err := c.run(newSessionArgs(opts)...); err != nil {
		return err
	}
	if opts.HistoryLimit > 0 {
		return c.SetHistoryLimit(opts.Name, opts.HistoryLimit)
	}
	return nil
}

// KillSession kills a tmux session.
func (c *RealClient) KillSession(name string) error {
	_, err := c.run("kill-session", "-t", name)
	return err
}

// HasSession checks if a session exists.
func (c *RealClient) HasSession(name string) bool {
	_, err := c.run("has-session", "-t", name)
	return err == nil
}

// captureArgs builds the capture-pane command line. end 0 is the first visible line,
// so a request ending there is clamped to the last history line.
func captureArgs(name string, start, end int) []string {
	if end == 0 {
		end = -1
	}
	return []string{"capture-pane",
		"-t", name,
		"-p", // Print to stdout
		"-J", // Join wrapped lines
		"-S", strconv.Itoa(start),
		"-E", strconv.Itoa(end),
	}
}

// CapturePane captures history lines from a session.
func (c *RealClient) CapturePane(name string, start, end int) ([]string, error) {
	out, err := c.run(captureArgs(name, start, end)...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// splitLines splits capture output into lines, preserving empty lines for proper rendering.
func splitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// SetHistoryLimit changes the session's history-limit option. Only panes created
// afterwards pick it up, which for splitmux is the next surface on the session.
func (c *RealClient) SetHistoryLimit(name string, lines int) error {
	_, err := c.run("set-option", "-t", name, "history-limit", strconv.Itoa(lines))
	return err
}

// Version returns the tmux version string.
func (c *RealClient) Version() (string, error) {
	out, err := c.run("-V")
	if err != nil {
		return "", err
	}
	return parseVersion(out), nil
}

// parseVersion strips "tmux " and "next-" from tmux -V output.
func parseVersion(versionOutput string) string {
	version := strings.TrimSpace(versionOutput)
	version = strings.TrimPrefix(version, "tmux ")
	return strings.TrimPrefix(version, "next-")
}

// SupportsControlMode reports whether version is new enough for the control-mode
// features splitmux uses (refresh-client -C with WxH, %exit): tmux 2.0+.
func SupportsControlMode(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return false
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	// Minor might have suffix like "2a"
	if _, err := strconv.Atoi(strings.TrimRight(parts[1], "abcdefghijklmnopqrstuvwxyz")); err != nil {
		return false
	}

	return major >= 2
}
