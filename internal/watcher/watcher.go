// Package watcher triggers rescans when Python sources change. It wraps
// fsnotify with recursive directory registration and a debounce window
// so bursts of editor writes coalesce into one callback.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a directory tree and reports changed Python files.
type Watcher struct {
	fs           *fsnotify.Watcher
	root         string
	debounceTime time.Duration
	callback     func(files []string)

	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
	cancel        context.CancelFunc
	ctx           context.Context
}

// New creates a watcher over root. All existing subdirectories are
// registered; directories created later are picked up as they appear.
func New(root string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:           fs,
		root:         root,
		debounceTime: 500 * time.Millisecond,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(root); err != nil {
		fs.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching. The callback receives absolute paths of
// changed .py files once the debounce window closes.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.watch()
}

// Stop shuts the watcher down and waits for its goroutine. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) watch() {
	defer close(w.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			// New directories need to be registered before events
			// inside them can be seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if !shouldProcessEvent(event) {
				continue
			}

			w.accumulatedMu.Lock()
			w.accumulated[event.Name] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(fireCh)

		case <-fireCh:
			w.fireCallback()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// fireCallback drains the accumulated set into one callback invocation.
func (w *Watcher) fireCallback() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	if w.callback != nil {
		w.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping and
// draining the old one.
func (w *Watcher) resetDebounceTimer(fireCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write/create/remove events on Python files.
func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}
	return filepath.Ext(event.Name) == ".py"
}

// addDirectoriesRecursively adds all directories in the tree to the
// watcher. Errors below the root are logged and skipped so one bad
// directory does not kill the watch.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if err := w.fs.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
