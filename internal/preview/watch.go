package preview

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

	"github.com/siteporter/siteporter/internal/logfields"
)

const debounceWindow = 300 * time.Millisecond

// Watcher observes the source tree and invokes rebuild after changes settle.
// Bursts of filesystem events collapse into a single rebuild; events arriving
// while a rebuild runs schedule exactly one follow-up.
type Watcher struct {
	root    string
	rebuild func(ctx context.Context)

	fsw        *fsnotify.Watcher
	rebuildReq chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	pending bool
}

// NewWatcher creates a watcher over root. rebuild is called from a single
// background goroutine.
func NewWatcher(root string, rebuild func(ctx context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		root:       root,
		rebuild:    rebuild,
		fsw:        fsw,
		rebuildReq: make(chan struct{}, 1),
	}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	go w.rebuildWorker(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// Trigger schedules a rebuild as if a file had changed. Used by the periodic
// rebuild job.
func (w *Watcher) Trigger() {
	select {
	case w.rebuildReq <- struct{}{}:
	default:
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	slog.Debug("file change detected", logfields.Path(ev.Name), "op", ev.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, w.Trigger)
}

func (w *Watcher) rebuildWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rebuildReq:
			w.mu.Lock()
			if w.running {
				w.pending = true
				w.mu.Unlock()
				continue
			}
			w.running = true
			w.mu.Unlock()

			w.rebuild(ctx)

			w.mu.Lock()
			w.running = false
			again := w.pending
			w.pending = false
			w.mu.Unlock()
			if again {
				w.Trigger()
			}
		}
	}
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if p != root && (strings.HasPrefix(name, ".") || name == "_site" || name == "node_modules") {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(p); err != nil {
				slog.Warn("watch add failed", logfields.Path(p), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters out hidden files and editor temp/swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	if base == "Thumbs.db" {
		return true
	}
	return false
}
