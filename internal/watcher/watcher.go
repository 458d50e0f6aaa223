// Package watcher keeps watched directories in sync with the vector index:
// file creates and writes trigger ingestion, removals trigger deletion.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches a fixed set of root directories with fsnotify. Write bursts
// are debounced per path so a file being copied in is ingested once, after it
// settles.
type Watcher struct {
	roots      []string
	extensions []string
	recursive  bool
	onIngest   func(path string)
	onRemove   func(path string)
	debounce   time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending map[string]*time.Timer
	started bool

	done     chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger // optional; when set, logs debug events
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher over roots. Files are filtered by extension
// (empty means all); onIngest and onRemove receive the affected path.
func NewWatcher(roots, extensions []string, recursive bool, onIngest, onRemove func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		roots:      roots,
		extensions: extensions,
		recursive:  recursive,
		onIngest:   onIngest,
		onRemove:   onRemove,
		debounce:   defaultDebounce,
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers all roots and begins processing events. It returns once
// watching is established; processing continues until ctx is cancelled or
// Stop is called. Missing roots are created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.started = true
	for _, root := range w.roots {
		if err := w.watchTreeLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	if w.logger != nil {
		w.logger.Debug("watcher started",
			zap.Strings("roots", w.roots),
			zap.Strings("extensions", w.extensions),
			zap.Bool("recursive", w.recursive))
	}
	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	switch {
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.adoptDirectory(path)
			return
		}
		if w.wantsFile(path) {
			w.scheduleIngest(path)
		}
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.cancelPending(path)
		if w.wantsFile(path) && w.onRemove != nil {
			w.onRemove(path)
		}
	}
}

// adoptDirectory starts watching a directory that appeared under a root and
// ingests any files already inside it (a moved-in tree arrives whole).
func (w *Watcher) adoptDirectory(path string) {
	w.mu.Lock()
	fsw := w.fsw
	recursive := w.recursive
	w.mu.Unlock()
	if fsw == nil || !recursive {
		return
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := fsw.Add(p); addErr != nil && w.logger != nil {
				w.logger.Warn("watch new directory", zap.String("path", p), zap.Error(addErr))
			}
			return nil
		}
		if w.wantsFile(p) {
			w.scheduleIngest(p)
		}
		return nil
	})
}

func (w *Watcher) watchTreeLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return err
		}
	}
	if !w.recursive {
		return w.fsw.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) wantsFile(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range w.extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleIngest(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if w.logger != nil {
			w.logger.Debug("ingesting changed file", zap.String("path", path))
		}
		if w.onIngest != nil {
			w.onIngest(path)
		}
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// SyncExisting ingests every matching file already present under the watched
// roots. Call after Start to pick up files that predate the watcher.
func (w *Watcher) SyncExisting() {
	for _, root := range w.roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if !w.recursive && filepath.Dir(path) != filepath.Clean(root) {
				return nil
			}
			if w.wantsFile(path) && w.onIngest != nil {
				w.onIngest(path)
			}
			return nil
		})
	}
}

// Stop stops event processing and cancels pending ingests.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.fsw == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fsw.Close()
	w.fsw = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
