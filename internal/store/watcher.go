package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// FileWatcher calls OnChange after a single file settles following a write,
// create or rename. It watches the parent directory so that editors that
// replace the file are still seen.
type FileWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	onChange    func(path string)
	debounceDur time.Duration
	pendingAt   time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewFileWatcher creates a watcher for path. debounce <= 0 uses 200ms.
func NewFileWatcher(path string, debounce time.Duration, onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &FileWatcher{
		watcher:     w,
		path:        filepath.Clean(path),
		onChange:    onChange,
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. This method is non-blocking.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
		_ = fw.watcher.Close()
		return err
	}
	logging.StoreDebug("Watching %s for changes", fw.path)

	go fw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	if err := fw.watcher.Close(); err != nil {
		logging.StoreWarn("FileWatcher: error closing watcher: %v", err)
	}
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	ticker := time.NewTicker(fw.debounceDur / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.StoreError("FileWatcher error: %v", err)
		case <-ticker.C:
			fw.flush()
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	fw.mu.Lock()
	fw.pendingAt = time.Now()
	fw.mu.Unlock()
}

func (fw *FileWatcher) flush() {
	fw.mu.Lock()
	fire := !fw.pendingAt.IsZero() && time.Since(fw.pendingAt) >= fw.debounceDur
	if fire {
		fw.pendingAt = time.Time{}
	}
	fw.mu.Unlock()

	if fire {
		logging.Store("Reloading %s", fw.path)
		fw.onChange(fw.path)
	}
}
