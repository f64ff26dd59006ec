package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 150 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	mu       sync.RWMutex
	onChange []func(*Config)
	onError  []func(error)

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches the directory holding path, so the file may be created,
// replaced or removed while splitmux runs.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	return &Watcher{
		path:    filepath.Clean(path),
		watcher: w,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// OnChange registers a callback for successfully reloaded configs.
func (w *Watcher) OnChange(cb func(*Config)) {
	w.mu.Lock()
	w.onChange = append(w.onChange, cb)
	w.mu.Unlock()
}

// OnError registers a callback for reloads that failed to load or validate.
func (w *Watcher) OnError(cb func(error)) {
	w.mu.Lock()
	w.onError = append(w.onError, cb)
	w.mu.Unlock()
}

// Start begins watching. Callbacks run on the watcher goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
	<-w.done
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	var pending <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending = time.After(reloadDelay)
			}

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fireError(err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.fireError(err)
		return
	}
	cfg.DataDir = filepath.Dir(w.path)

	w.mu.RLock()
	callbacks := append([]func(*Config){}, w.onChange...)
	w.mu.RUnlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (w *Watcher) fireError(err error) {
	w.mu.RLock()
	callbacks := append([]func(error){}, w.onError...)
	w.mu.RUnlock()
	for _, cb := range callbacks {
		cb(err)
	}
}
