package tmux

import "fmt"

// Orphans returns the detached sessions whose name starts with prefix. They
// are left behind when a splitmux process dies without shutting down.
func Orphans(c Client, prefix string) ([]Session, error) {
	sessions, err := c.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var out []Session
	for _, s := range WithPrefix(sessions, prefix) {
		if !s.Attached {
			out = append(out, s)
		}
	}
	return out, nil
}

// KillOrphans kills every orphaned session and returns the names it killed.
// Sessions that vanished in the meantime are skipped.
func KillOrphans(c Client, prefix string) ([]string, error) {
	orphans, err := Orphans(c, prefix)
	if err != nil {
		return nil, err
	}
	var killed []string
	for _, s := range orphans {
		if !c.HasSession(s.Name) {
			continue
		}
		if err := c.KillSession(s.Name); err != nil {
			return killed, fmt.Errorf("killing %s: %w", s.Name, err)
		}
		killed = append(killed, s.Name)
	}
	return killed, nil
}
