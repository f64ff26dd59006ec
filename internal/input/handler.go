package input

import (
	"sync"
)

// Handler tracks the current mode. Keybinding callbacks and the layout pass
// both read it.
type Handler struct {
	mode Mode
	mu   sync.RWMutex
}

// NewHandler creates a new input handler in normal mode.
func NewHandler() *Handler {
	return &Handler{
		mode: ModeNormal,
	}
}

// Mode returns the current input mode.
func (h *Handler) Mode() Mode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mode
}

// SetMode changes the current input mode.
func (h *Handler) SetMode(mode Mode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = mode
}

// EnterTerminalMode switches to terminal mode.
func (h *Handler) EnterTerminalMode() {
	h.SetMode(ModeTerminal)
}

// EnterNormalMode switches to normal mode.
func (h *Handler) EnterNormalMode() {
	h.SetMode(ModeNormal)
}
