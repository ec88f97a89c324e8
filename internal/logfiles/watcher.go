package logfiles

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reports changes to the log files of a directory. Bursts of events
// are coalesced into one notification.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	ignore   string
	logger   *slog.Logger
}

// NewWatcher creates a Watcher for dir
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  w,
		dir:      dir,
		debounce: defaultDebounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger,
	}, nil
}

// Changes delivers one value per coalesced burst of log file changes
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// IgnoreWrites skips write events for the named file. Use it for the file
// the process logs to, whose writes would otherwise report themselves.
// It must be called before Start.
func (w *Watcher) IgnoreWrites(name string) {
	w.ignore = filepath.Base(name)
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		w.logger.Warn("failed to create log directory", "dir", w.dir, "error", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("failed to close log watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("log watcher error", "error", err)

		case <-timerCh:
			timerCh = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

// relevant reports whether event changes what the log list shows. Nothing in
// the event loop may log: the logger can write into the watched directory.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, Ext) || event.Op == fsnotify.Chmod {
		return false
	}
	if w.ignore != "" && filepath.Base(event.Name) == w.ignore {
		return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	}
	return true
}
