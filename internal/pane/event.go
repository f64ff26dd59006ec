package pane

import "sync"

// Event is a multicast signal with revocable handlers. Raise may be called
// from any goroutine.
type Event struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handler
}

type handler struct {
	id uint64
	fn func()
}

// Subscription is the guard returned by Subscribe. Revoke is idempotent and
// safe on a nil or zero Subscription.
type Subscription struct {
	once   sync.Once
	revoke func()
}

// Subscribe registers fn and returns its guard.
func (e *Event) Subscribe(fn func()) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, handler{id: id, fn: fn})

	return &Subscription{revoke: func() { e.remove(id) }}
}

func (e *Event) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Raise invokes every registered handler in subscription order.
func (e *Event) Raise() {
	e.mu.Lock()
	handlers := make([]handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.Unlock()

	for _, h := range handlers {
		h.fn()
	}
}

// Len returns the number of live handlers.
func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

// Revoke removes the handler. Further calls do nothing.
func (s *Subscription) Revoke() {
	if s == nil || s.revoke == nil {
		return
	}
	s.once.Do(s.revoke)
}
