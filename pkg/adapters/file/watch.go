package file

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/marl/pkg/core"
)

// Watch observes external changes to the store file and emits one event per
// changed document, filtered by an ID glob pattern. The channel closes when
// the context is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	events := make(chan core.Event, 64)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var _ core.Watchable = (*Store)(nil)

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("file-watcher"),
		store:      store,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: renames over the store file (atomic writes)
	// would otherwise detach a file-level watch.
	if err := watcher.Add(filepath.Dir(w.store.Path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch store directory: %w", err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.store.logger.Enabled(ctx, slog.LevelDebug) {
				w.store.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.store.logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Stop accepting new events and wait for in-flight timers before the
	// deferred close of the events channel.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// processFilesystemEvent filters raw events down to changes of the store
// file itself, debouncing bursts (atomic writes surface as create+rename).
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, TempFilePrefix) || strings.HasSuffix(name, ".lock") {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	w.debouncer.add(w.store.Path, func() {
		w.reconcile(ctx)
	})
}

// reconcile reloads the store file and emits one event per document whose
// contents changed relative to the in-memory snapshot.
func (w *watchWorker) reconcile(ctx context.Context) {
	changes, err := w.store.reconcile(ctx)
	if err != nil {
		w.store.logger.Error("reconcile failed", "error", err)
		return
	}

	for _, e := range changes {
		if w.pattern != "" && !matchesPattern(w.pattern, e.ID) {
			continue
		}
		w.sendEvent(ctx, e)
	}
}

// sendEvent delivers an event, protecting against channel closure during
// shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	defer func() {
		// Recover from panic if channel was closed (worker stopping)
		_ = recover()
	}()
	select {
	case w.events <- event:
	case <-ctx.Done():
	}
}

// reconcile recomputes the document set from disk and returns per-document
// change events against the previous in-memory state.
func (s *Store) reconcile(ctx context.Context) ([]core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := make(map[string]core.Document, len(s.data.Documents))
	for _, doc := range s.data.Documents {
		before[s.documentID(doc)] = doc
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	s.recordReconcile()

	now := time.Now().Unix()
	var events []core.Event

	seen := make(map[string]bool, len(s.data.Documents))
	for _, doc := range s.data.Documents {
		id := s.documentID(doc)
		seen[id] = true
		prev, existed := before[id]
		switch {
		case !existed:
			events = append(events, core.Event{Type: core.EventCreate, ID: id, Timestamp: now})
		case !prev.Equal(doc):
			events = append(events, core.Event{Type: core.EventModify, ID: id, Timestamp: now})
		}
	}
	for id := range before {
		if !seen[id] {
			events = append(events, core.Event{Type: core.EventDelete, ID: id, Timestamp: now})
		}
	}
	return events, nil
}
