// Package scenewatch reports out-of-band edits to a scene file so an open
// search window can relist its corpus.
package scenewatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Defaults for coalescing and rate limiting change signals.
const (
	DefaultQuiet    = 200 * time.Millisecond
	DefaultInterval = time.Second
)

// Watcher turns bursts of file events on one scene file into single change
// signals. Signals are delivered at most once per interval.
type Watcher struct {
	watcher *fsnotify.Watcher
	targets map[string]struct{}
	quiet   time.Duration
	limiter *rate.Limiter
	changes chan struct{}
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuiet sets how long the file must stay untouched before a signal.
func WithQuiet(d time.Duration) Option {
	return func(w *Watcher) {
		w.quiet = d
	}
}

// WithInterval sets the minimum spacing between signals.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// New watches path. The parent directory is watched so editors that
// replace the file by rename are seen, as are SQLite write-ahead logs.
func New(path string, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("scene path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving scene path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher: fw,
		targets: map[string]struct{}{
			abs:          {},
			abs + "-wal": {},
		},
		quiet:   DefaultQuiet,
		limiter: rate.NewLimiter(rate.Every(DefaultInterval), 1),
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes delivers one value per coalesced burst of edits. Signals that
// arrive while a previous one is unread are merged.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher failures. Only the most recent unread error is
// kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.quiet)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			logger.Debug("Scene file event: %s", event)
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.quiet)
			armed = true
		case <-timer.C:
			armed = false
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Scene watcher error: %v", err)
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[abs]
	return ok
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
