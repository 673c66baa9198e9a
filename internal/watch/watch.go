// Package watch re-runs a build whenever files under a source tree change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsmake/internal/logfields"
)

// DefaultDebounce is how long the tree must be quiet before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc performs one build. Its error is logged, never fatal to the loop.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds on changes below Root.
type Watcher struct {
	Root string
	// Exclude lists directories whose changes never trigger a rebuild,
	// typically the build output directory.
	Exclude  []string
	Debounce time.Duration
	Build    BuildFunc

	exclude []string
}

// Run performs an initial build and then rebuilds after each burst of
// changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.Root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}
	w.exclude = w.exclude[:0]
	for _, ex := range w.Exclude {
		abs, err := filepath.Abs(ex)
		if err != nil {
			return fmt.Errorf("resolve excluded path: %w", err)
		}
		w.exclude = append(w.exclude, abs)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := w.addDirsRecursive(watcher, root); err != nil {
		return err
	}

	w.runBuild(ctx)
	slog.Info("Watching for changes", logfields.Path(root))

	rebuildReq, trigger := setupRebuildDebouncer(debounce)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding")
			w.runBuild(ctx)
		}
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	start := time.Now()
	if err := w.Build(ctx); err != nil {
		slog.Warn("Build failed", logfields.Error(err))
		return
	}
	slog.Info("Build finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// setupRebuildDebouncer returns a channel that receives once per quiet period
// after one or more trigger calls.
func setupRebuildDebouncer(d time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

func (w *Watcher) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || w.excluded(ev.Name) {
		return
	}
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (shouldIgnoreEvent(path) || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent returns true for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "__pycache__"
}
