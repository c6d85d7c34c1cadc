// Package watch implements the hot-reload coordinator (component C10, spec
// §4.6): it watches every file a config resolve touched, debounces the raw
// fsnotify events, and rebuilds the route table on quiescence.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/rustyjsonserver/rjs/router"
	"github.com/rustyjsonserver/rjs/rjsconfig"
)

// Debounce is the quiescence window spec §4.6 requires between the last
// observed file event and the rebuild it triggers.
const Debounce = 150 * time.Millisecond

// Watcher rebuilds rootPath via rjsconfig.Resolve and swaps the result into
// a Dispatcher whenever a watched file changes.
type Watcher struct {
	rootPath   string
	dispatcher *router.Dispatcher
	logger     zerolog.Logger

	fsw *fsnotify.Watcher
}

// New creates a Watcher for rootPath, registering every file in watchFiles
// (the Files the most recent successful Resolve reported) with fsnotify.
func New(rootPath string, watchFiles []string, dispatcher *router.Dispatcher, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{rootPath: rootPath, dispatcher: dispatcher, logger: logger, fsw: fsw}
	if err := w.watchAll(watchFiles); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) watchAll(files []string) error {
	for _, f := range files {
		if err := w.fsw.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// Run blocks, debouncing fsnotify events and rebuilding on quiescence, until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Info().Str("file", event.Name).Msg("config file changed, debouncing rebuild")
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(Debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")

		case <-timerC:
			w.rebuild()
			timerC = nil
		}
	}
}

// rebuild re-resolves rootPath and, on success, swaps the dispatcher's table
// and re-registers the (possibly changed) set of watched files. On failure
// the previously installed table is left untouched and the error is logged
// with full provenance.
func (w *Watcher) rebuild() {
	table, err := rjsconfig.Resolve(w.rootPath)
	if err != nil {
		w.logger.Error().Err(err).Str("root", w.rootPath).Msg("hot-reload rebuild failed, keeping previous route table")
		return
	}
	for _, f := range table.Files {
		_ = w.fsw.Add(f) // already-watched files are a harmless no-op
	}
	w.dispatcher.Swap(table)
	w.logger.Info().Str("root", w.rootPath).Msg("hot-reload rebuild succeeded")
}
