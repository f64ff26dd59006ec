package input

import (
	"sync"
	"testing"

	"github.com/jesseduffield/gocui"
)

func TestHandler_ModeTransitions(t *testing.T) {
	h := NewHandler()

	// Should start in normal mode
	if h.Mode() != ModeNormal {
		t.Error("NewHandler should start in ModeNormal")
	}

	h.EnterTerminalMode()
	if h.Mode() != ModeTerminal {
		t.Error("EnterTerminalMode should set ModeTerminal")
	}

	h.EnterNormalMode()
	if h.Mode() != ModeNormal {
		t.Error("EnterNormalMode should set ModeNormal")
	}
}

func TestHandler_ConcurrentAccess(t *testing.T) {
	h := NewHandler()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.EnterTerminalMode()
			h.EnterNormalMode()
		}()
		go func() {
			defer wg.Done()
			_ = h.Mode().String()
		}()
	}
	wg.Wait()
	if h.Mode() != ModeNormal {
		t.Errorf("Mode() = %v after all goroutines finished, want NORMAL", h.Mode())
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		key  gocui.Key
		ch   rune
		mod  gocui.Modifier
		want Keystroke
		ok   bool
	}{
		{"rune", 0, 'a', gocui.ModNone, Keystroke{Literal: "a"}, true},
		{"unicode rune", 0, 'é', gocui.ModNone, Keystroke{Literal: "é"}, true},
		{"alt rune", 0, 'f', gocui.ModAlt, Keystroke{Keys: "M-f"}, true},
		{"enter", gocui.KeyEnter, 0, gocui.ModNone, Keystroke{Keys: "Enter"}, true},
		{"ctrl-c", gocui.KeyCtrlC, 0, gocui.ModNone, Keystroke{Keys: "C-c"}, true},
		{"arrow", gocui.KeyArrowUp, 0, gocui.ModNone, Keystroke{Keys: "Up"}, true},
		{"alt arrow", gocui.KeyArrowLeft, 0, gocui.ModAlt, Keystroke{Keys: "M-Left"}, true},
		{"page up", gocui.KeyPgup, 0, gocui.ModNone, Keystroke{Keys: "PPage"}, true},
		{"unmapped", gocui.Key(0x7fff), 0, gocui.ModNone, Keystroke{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.key, tt.ch, tt.mod)
			if ok != tt.ok {
				t.Fatalf("Translate ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Translate = %+v, want %+v", got, tt.want)
			}
		})
	}
}
