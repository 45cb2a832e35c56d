package richtext

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/g-Off/RichText/internal/log"
)

// EnvironmentWatcher reloads an environment theme file when it changes
// on disk. The handler runs on the watcher's goroutine (or on the
// caller of Refresh); hosts that are loop-affine must marshal the new
// environment onto their own loop.
type EnvironmentWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	handler func(Environment)
	logger  *log.Logger

	debounce time.Duration

	mu     sync.Mutex
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchEnvironment watches the theme file at path and calls handler
// with the freshly loaded environment after each change. The parent
// directory is watched, so editors that replace the file atomically are
// still observed.
func WatchEnvironment(path string, handler func(Environment)) (*EnvironmentWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, WrapError(err, "creating environment watcher")
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, WrapError(err, "watching %s", filepath.Dir(absPath))
	}

	w := &EnvironmentWatcher{
		path:     absPath,
		watcher:  fsw,
		handler:  handler,
		logger:   log.Default().WithComponent("envwatch"),
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Path returns the watched file path.
func (w *EnvironmentWatcher) Path() string {
	return w.path
}

// Refresh reloads the theme file immediately, outside the debounce
// window, delivering to the handler on the calling goroutine. It
// returns ErrWatcherClosed on a stopped watcher.
func (w *EnvironmentWatcher) Refresh() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}
	w.reload()
	return nil
}

// Close stops the watcher. Safe to call more than once.
func (w *EnvironmentWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// run processes file events, debouncing rapid change bursts before
// reloading.
func (w *EnvironmentWatcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// reload loads the environment and delivers it to the handler.
func (w *EnvironmentWatcher) reload() {
	env, err := LoadEnvironment(w.path)
	if err != nil {
		w.logger.Warn("reload failed: %v", err)
		return
	}
	w.logger.Debug("environment reloaded from %s", w.path)
	w.handler(env)
}
