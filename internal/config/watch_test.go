package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	changes := make(chan *Config, 4)
	w.OnChange(func(c *Config) { changes <- c })
	w.Start()

	if err := os.WriteFile(path, []byte("separator_size: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changes:
		if cfg.SeparatorSize != 3 {
			t.Errorf("SeparatorSize = %d, want 3", cfg.SeparatorSize)
		}
		if cfg.DataDir != dir {
			t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing config")
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	errs := make(chan error, 4)
	w.OnError(func(err error) { errs <- err })
	w.OnChange(func(*Config) { t.Error("invalid config delivered as a change") })
	w.Start()

	if err := os.WriteFile(path, []byte("default_profile: nope\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if err == nil {
			t.Error("nil error delivered")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error after writing invalid config")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	changes := make(chan *Config, 4)
	w.OnChange(func(c *Config) { changes <- c })
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "splitmux.log"), []byte("noise\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
		t.Error("reloaded after an unrelated file changed")
	case <-time.After(2 * reloadDelay):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	w.Stop()
	w.Stop()
}
