// Package watch reports changes to Python files so they can be re-checked.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"promnamelint/internal/crawler"
)

// Config configures the file watcher
type Config struct {
	// Roots are the directories (or single files) to watch
	Roots []string

	// Crawler decides which directories and files are skipped
	Crawler *crawler.Crawler

	// DebounceDelay is how long changes accumulate before a batch is sent
	DebounceDelay time.Duration

	Logger *slog.Logger
}

// Operation indicates the type of file change
type Operation string

const (
	OpChange Operation = "change"
	OpDelete Operation = "delete"
)

// Event is one changed file
type Event struct {
	Path      string
	Operation Operation
}

// Watcher watches Python files and emits debounced batches of changes
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events chan []Event
}

// NewWatcher creates a new file watcher
func NewWatcher(config Config) (*Watcher, error) {
	if config.Crawler == nil {
		return nil, errors.New("watch: crawler is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		events:  make(chan []Event, 16),
	}, nil
}

// Events returns the channel of change batches. It is closed once the watcher
// stops.
func (w *Watcher) Events() <-chan []Event {
	return w.events
}

// Start adds watches for every root and begins processing events until ctx is
// done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.config.Roots {
		if err := w.addWatchesRecursive(root); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"roots", w.config.Roots,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop releases the underlying watches.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.config.Crawler.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.addWatch(path)
		return nil
	})
}

func (w *Watcher) addWatch(path string) {
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch directory",
			"path", path,
			"error", err)
		return
	}
	w.logger.Debug("Watching directory", "path", path)
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".py") {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.config.Crawler.SkipDir(filepath.Base(path)) {
				// Files created before the watch lands are picked up by the walk.
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}
	if w.excluded(path) || event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

func (w *Watcher) excluded(path string) bool {
	for _, root := range w.config.Roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if w.config.Crawler.Excluded(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	batch := make([]Event, 0, len(toProcess))
	for path := range toProcess {
		// The final state of the file decides the operation.
		op := OpChange
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			op = OpDelete
		}
		batch = append(batch, Event{Path: path, Operation: op})
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })

	select {
	case w.events <- batch:
		w.logger.Debug("Sent watch batch", "files", len(batch))
	case <-ctx.Done():
	}
}
