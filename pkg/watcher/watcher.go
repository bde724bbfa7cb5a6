// Package watcher follows the soroban config file so board and practice
// settings can change while the trainer is running.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/soroban/pkg/debug"
)

// DefaultPollInterval is the stat interval used when inotify is unavailable.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the quiet period before a change is reported.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounceDuration = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked after a debounced change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher reports changes to a single file. It watches the parent directory
// so editors that save by rename are still seen, and falls back to polling
// on network mounts or when SOROBAN_FORCE_POLL is set.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	mu        sync.RWMutex
	started   bool
	polling   bool
	fsType    FilesystemType
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	cancel    context.CancelFunc
	lastMtime time.Time
	lastSize  int64

	changeCh chan struct{}
}

// NewWatcher creates a watcher for path. The file need not exist yet.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	if err := w.snapshotLocked(); err != nil {
		return err
	}

	w.fsType = DetectFilesystemType(w.path)
	w.polling = w.forcePoll || envBool("SOROBAN_FORCE_POLL") || isRemoteFilesystem(w.fsType)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsw.Add(filepath.Dir(w.path))
			if err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchEvents(ctx, fsw.Events, fsw.Errors)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	debug.Log("watcher: started on %s (fs=%s polling=%v)", w.path, w.fsType, w.polling)
	w.started = true
	return nil
}

// snapshotLocked records the current size and mtime so polling only reports
// later changes. A missing file is fine.
func (w *Watcher) snapshotLocked() error {
	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}
	return nil
}

// Stop stops watching. The Changed channel stays open so a goroutine blocked
// on it is not woken with a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling reports whether the watcher fell back to stat polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives after each debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the classification made at Start.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watchEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				w.onError(ErrFileRemoved)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				w.debouncer.Trigger(w.notifyChange)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.pollOnce() {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// pollOnce stats the file and reports whether it changed since last time.
func (w *Watcher) pollOnce() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			w.mu.RLock()
			existed := !w.lastMtime.IsZero()
			w.mu.RUnlock()
			if existed {
				w.onError(ErrFileRemoved)
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.lastMtime) && info.Size() == w.lastSize {
		return false
	}
	w.lastMtime = info.ModTime()
	w.lastSize = info.Size()
	return true
}

func (w *Watcher) notifyChange() {
	if !w.IsStarted() {
		return
	}
	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
