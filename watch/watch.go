// Package watch re-runs a handler whenever one of a set of files changes.
//
// The parent directory of every file is watched rather than the file itself,
// so editors that save by rename still trigger a run. Bursts of events are
// coalesced: the handler fires once per path after the debounce delay has
// passed without further changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a change is acted on.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrNilHandler is returned by New for a nil handler.
	ErrNilHandler = errors.New("watch: handler is nil")
	// ErrNoPaths is returned by Run when called without paths.
	ErrNoPaths = errors.New("watch: no paths to watch")
)

// Handler reacts to a change of path. A returned error is logged and the
// watcher keeps running.
type Handler func(ctx context.Context, path string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher dispatches file changes to a Handler. The handler always runs on
// the goroutine that called Run, one path at a time.
type Watcher struct {
	handler  Handler
	debounce time.Duration
	log      *zap.Logger
}

// New returns a Watcher for handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	w := &Watcher{handler: handler, debounce: DefaultDebounce, log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches paths until ctx is done, then returns nil. Setup failures
// are returned immediately.
func (w *Watcher) Run(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return ErrNoPaths
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create file watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %s: %w", p, err)
		}
		targets[abs] = struct{}{}
		if err = fw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch: %s: %w", p, err)
		}
		w.log.Debug("Watching file", zap.String("path", abs))
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping watcher")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[name]; !ok {
				continue
			}
			w.log.Debug("File changed",
				zap.String("path", name),
				zap.String("operation", ev.Op.String()),
			)
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			for _, p := range changed {
				if err := w.handler(ctx, p); err != nil {
					w.log.Error("Handler failed", zap.String("path", p), zap.Error(err))
				}
			}
		}
	}
}
