package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/selector-go/infrastructure/logging"
	"github.com/felixgeelhaar/selector-go/infrastructure/telemetry"
)

// debounceDelay coalesces the burst of events an editor emits when
// rewriting a file.
const debounceDelay = 250 * time.Millisecond

// Watcher reloads a store when its catalog file changes on disk.
type Watcher struct {
	store   *Store
	metrics telemetry.Metrics
}

// NewWatcher creates a watcher over the given store.
func NewWatcher(store *Store) *Watcher {
	return &Watcher{store: store, metrics: telemetry.NoopMetrics{}}
}

// WithMetrics sets the metrics recorder for reload outcomes.
func (w *Watcher) WithMetrics(m telemetry.Metrics) *Watcher {
	if m != nil {
		w.metrics = m
	}
	return w
}

// Watch blocks until ctx is cancelled, reloading the store on every
// write to the catalog file. Watching the directory rather than the
// file keeps rename-based atomic saves visible.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(w.store.Path())
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.NewEvent(logging.Get().Warn()).
				Add(logging.Component("catalog")).
				Add(logging.ErrorField(err)).
				Msg("watch error")
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		w.metrics.RecordCatalogReload(context.Background(), false, len(w.store.AllTools()))
		logging.NewEvent(logging.Get().Warn()).
			Add(logging.Component("catalog")).
			Add(logging.Path(w.store.Path())).
			Add(logging.ErrorField(err)).
			Msg("reload failed, keeping previous catalog")
		return
	}
	w.metrics.RecordCatalogReload(context.Background(), true, len(w.store.AllTools()))
	logging.NewEvent(logging.Get().Info()).
		Add(logging.Component("catalog")).
		Add(logging.Path(w.store.Path())).
		Msg("catalog reloaded")
}
