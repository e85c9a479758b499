// Package watch reruns a callback whenever a file changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/logging"
)

// DefaultDebounce groups the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one file for writes.
type Watcher struct {
	path     string
	onChange func(context.Context) error
	debounce time.Duration
	log      *zap.SugaredLogger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for change and error reports.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a watcher for path.
func New(path string, onChange func(context.Context) error, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.NewInputError("watch mode needs a file", errors.ErrWatchRequiresFile)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewInputError("invalid watch path", err)
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is done. It watches the file's directory so editors
// that save by replacing the file are still seen. Errors returned by
// onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", w.path)
	}
	w.log.Debugw("Watching for changes", "file", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debugw("Change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.log.Errorw("Regeneration failed", "file", w.path, "error", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("File watcher error", "error", err)
		}
	}
}
