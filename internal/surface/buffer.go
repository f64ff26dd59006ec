package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vito/midterm"
)

// Buffer wraps midterm.Terminal with a mutex. The output pump writes from its
// own goroutine while the UI renders, so all access goes through Buffer.
type Buffer struct {
	term *midterm.Terminal
	mu   sync.Mutex
}

// Frame is one consistent snapshot of the buffer for drawing.
type Frame struct {
	Content       string
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// NewBuffer creates an emulated screen of rows x cols.
func NewBuffer(rows, cols int) *Buffer {
	return &Buffer{
		term: midterm.NewTerminal(max(rows, 1), max(cols, 1)),
	}
}

// Write feeds terminal output into the emulator.
func (b *Buffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term.Write(data)
}

// Resize changes the emulated screen size. Non-positive sizes are ignored.
func (b *Buffer) Resize(rows, cols int) {
	if rows < 1 || cols < 1 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.term.Height == rows && b.term.Width == cols {
		return
	}
	b.term.Resize(rows, cols)
}

// Dimensions returns the emulated screen size.
func (b *Buffer) Dimensions() (rows, cols int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term.Height, b.term.Width
}

// Snapshot renders the screen and reads the cursor under one lock.
// midterm can panic on a render racing a resize; that frame is dropped.
func (b *Buffer) Snapshot() (f Frame, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			f, err = Frame{}, fmt.Errorf("render: %v", r)
		}
	}()

	if b.term.Height <= 0 || b.term.Width <= 0 {
		return Frame{}, nil
	}

	var sb strings.Builder
	if err := b.term.Render(&sb); err != nil {
		return Frame{}, err
	}
	return Frame{
		Content:       sb.String(),
		CursorX:       b.term.Cursor.X,
		CursorY:       b.term.Cursor.Y,
		CursorVisible: b.term.CursorVisible,
	}, nil
}
