package surface

import (
	"sync"

	"github.com/abdullathedruid/splitmux/internal/tmux"
)

// Scrollback tracks how far a surface is scrolled into its tmux history and
// caches the captured lines for the current position.
type Scrollback struct {
	mu         sync.Mutex
	client     tmux.Client
	session    string
	limit      int      // maximum lines the view may scroll up
	scrollPos  int      // 0 = live view, >0 = lines scrolled up from bottom
	cache      []string // Cached scrollback lines
	cacheValid bool
}

// NewScrollback creates a scrollback for session, allowing up to limit lines.
func NewScrollback(client tmux.Client, session string, limit int) *Scrollback {
	return &Scrollback{
		client:  client,
		session: session,
		limit:   limit,
	}
}

// SetLimit changes how many lines can be scrolled, clamping the current position.
func (s *Scrollback) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	if s.scrollPos > limit {
		s.scrollPos = max(limit, 0)
		s.cacheValid = false
	}
}

// ScrollPos returns the current scroll position (0 = live, >0 = scrolled up).
func (s *Scrollback) ScrollPos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollPos
}

// IsScrolled returns true if the view is not showing live output.
func (s *Scrollback) IsScrolled() bool {
	return s.ScrollPos() > 0
}

// ScrollUp moves the viewport up, stopping at the limit. Returns the new position.
func (s *Scrollback) ScrollUp(lines int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollPos = min(s.scrollPos+lines, max(s.limit, 0))
	s.cacheValid = false
	return s.scrollPos
}

// ScrollDown moves the viewport down, stopping at the live view. Returns the new position.
func (s *Scrollback) ScrollDown(lines int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollPos = max(s.scrollPos-lines, 0)
	s.cacheValid = false
	return s.scrollPos
}

// ScrollToBottom resets scroll position to show live output.
func (s *Scrollback) ScrollToBottom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollPos = 0
	s.cacheValid = false
}

// InvalidateCache marks the cache stale; called when new output arrives.
func (s *Scrollback) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheValid = false
}

// CaptureHistory returns the height lines visible at the current position.
func (s *Scrollback) CaptureHistory(height int) ([]string, error) {
	s.mu.Lock()
	scrollPos := s.scrollPos
	if s.cacheValid && len(s.cache) > 0 {
		cache := s.cache
		s.mu.Unlock()
		return cache, nil
	}
	s.mu.Unlock()

	// scrollPos=10, height=24 shows lines -34 to -10 relative to the visible bottom
	lines, err := s.client.CapturePane(s.session, -(scrollPos + height), -scrollPos)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Only cache if nobody scrolled while we were capturing
	if s.scrollPos == scrollPos {
		s.cache = lines
		s.cacheValid = true
	}
	s.mu.Unlock()

	return lines, nil
}
