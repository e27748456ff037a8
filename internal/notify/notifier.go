// Package notify watches the preference directory and fans change events
// out to registered listeners.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/prefkeep/internal/errors"
)

// Listener receives change notifications for files in the watched directory.
// Paths are file names relative to that directory.
type Listener interface {
	// OnFileUpdated is called after a file's contents were written.
	OnFileUpdated(path string)
	// OnFileAttributesChanged is called after a file's metadata changed.
	OnFileAttributesChanged(path string)
}

// Notifier watches one directory and dispatches every event to its
// listeners in registration order.
//
// Callbacks run synchronously on the goroutine running Start and must not
// block. A panicking listener is logged and skipped; delivery continues
// with the next listener.
type Notifier struct {
	dir    string
	logger *slog.Logger

	mu        sync.RWMutex
	listeners []Listener

	watcher *fsnotify.Watcher
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a Notifier for dir. Nothing is watched until Start.
func New(dir string, opts ...Option) (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	n := &Notifier{
		dir:     dir,
		logger:  slog.Default(),
		watcher: w,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Register appends l to the listener list.
func (n *Notifier) Register(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Listeners returns the number of registered listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Start watches the directory and delivers events until ctx is done or the
// watcher is closed. It should be run in its own goroutine.
func (n *Notifier) Start(ctx context.Context) error {
	if err := n.watcher.Add(n.dir); err != nil {
		return errors.Wrapf(err, "watching %s", n.dir)
	}
	n.logger.Debug("watching preference folder", "dir", n.dir)

	for {
		select {
		case event, ok := <-n.watcher.Events:
			if !ok {
				return nil
			}
			n.Dispatch(event)

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return nil
			}
			n.logger.Warn("preference watcher error", "error", err)

		case <-ctx.Done():
			n.logger.Debug("preference watcher stopping")
			return nil
		}
	}
}

// Close stops the watcher and releases its resources.
func (n *Notifier) Close() error {
	return n.watcher.Close()
}

// Dispatch delivers one raw event to every listener. Attribute changes are
// reported before content updates when an event carries both.
func (n *Notifier) Dispatch(event fsnotify.Event) {
	attrib := event.Has(fsnotify.Chmod)
	updated := event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
	if !attrib && !updated {
		return
	}

	path := n.relative(event.Name)

	n.mu.RLock()
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for _, l := range listeners {
		if attrib {
			n.call(l, path, l.OnFileAttributesChanged)
		}
		if updated {
			n.call(l, path, l.OnFileUpdated)
		}
	}
}

func (n *Notifier) call(l Listener, path string, fn func(string)) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("preference listener panicked",
				"listener", fmt.Sprintf("%T", l), "path", path, "panic", r)
		}
	}()
	fn(path)
}

// relative strips the watched directory from an event name. Events for the
// directory itself map to ".".
func (n *Notifier) relative(name string) string {
	if rel, err := filepath.Rel(n.dir, name); err == nil {
		return rel
	}
	return filepath.Base(name)
}
