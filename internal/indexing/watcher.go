package indexing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// debounceWindow batches bursts of fsnotify events (editors often emit
// several writes per save) into a single re-index per file, the same
// purpose the teacher's eventDebouncer serves in watcher.go.
const debounceWindow = 300 * time.Millisecond

// Watcher triggers OnChange for files that are created or written under
// root, recursively, skipping excluded directories. It is an optional
// addition to indexing: a caller with no background watch configured
// simply never constructs one and relies on explicit index_workspace /
// manage_workspace refresh calls instead.
type Watcher struct {
	root     string
	excludes []string
	fsw      *fsnotify.Watcher

	OnChange func(absPath string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a Watcher rooted at root. Call Start to begin
// watching and Close to release the underlying fsnotify handle.
func NewWatcher(root string, excludes []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, julierrors.NewStorageError("watcher_new", err)
	}
	if len(excludes) == 0 {
		excludes = DefaultExcludes
	}
	return &Watcher{root: root, excludes: excludes, fsw: fsw, pending: make(map[string]*time.Timer)}, nil
}

// Start recursively adds watches for every non-excluded directory under
// root and begins processing events in a background goroutine. It
// returns once the initial directory walk completes; events are
// delivered to OnChange asynchronously until ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatches(w.root); err != nil {
		return julierrors.NewStorageError("watcher_add_watches", err)
	}
	go w.processEvents(ctx)
	return nil
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && matchesAny(w.excludes, filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		_ = w.fsw.Add(path) // a directory that fails to watch (e.g. permissions) is simply not observed
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.debounce(event.Name)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, exists := w.pending[path]; exists {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if w.OnChange != nil {
			w.OnChange(path)
		}
	})
}

// Close releases the underlying fsnotify handle immediately, without
// waiting for a context cancellation.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
