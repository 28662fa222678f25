// Package watcher keeps the input tree under observation after the initial
// batch (--watch). New files accepted by the classifier are handed to the
// caller one at a time, preserving the run's sequential execution model.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/swareham/ffmpegd/internal/logging"
)

// Watcher watches a directory tree recursively and reports new matching
// files once they have stopped changing for a settle interval. fsnotify
// does not watch recursively by itself, so every directory is registered
// individually and new directories are added as they appear.
type Watcher struct {
	root   string
	accept func(string) bool
	settle time.Duration
	log    *logging.Logger
	w      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
}

// New creates a watcher for root. accept is the same classifier predicate
// the batch used; settle is how long a file must stay unchanged before it
// is reported (writers rarely produce a media file in one atomic step).
func New(root string, accept func(string) bool, settle time.Duration, log *logging.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:    root,
		accept:  accept,
		settle:  settle,
		log:     log,
		w:       w,
		pending: make(map[string]*time.Timer),
		ready:   make(chan string, 16),
	}, nil
}

// Run registers the tree and blocks, invoking handle for each settled new
// file. handle is always called from this goroutine, one file at a time.
// Returns when ctx is cancelled.
func (wr *Watcher) Run(ctx context.Context, handle func(path string)) error {
	if err := wr.addRecursive(wr.root); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wr.w.Events:
			if !ok {
				return nil
			}
			wr.handleEvent(ev)
		case err, ok := <-wr.w.Errors:
			if !ok {
				return nil
			}
			wr.log.Warn("watcher: %v", err)
		case path := <-wr.ready:
			handle(path)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (wr *Watcher) Close() error { return wr.w.Close() }

func (wr *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			wr.log.Warn("watcher: %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if err := wr.w.Add(path); err != nil {
				wr.log.Warn("watcher: cannot watch %s: %v", path, err)
			}
		}
		return nil
	})
}

func (wr *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = wr.addRecursive(ev.Name)
			return
		}
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !wr.accept(ev.Name) {
		return
	}
	wr.debounce(ev.Name)
}

// debounce (re)starts the settle timer for path. Repeated writes keep
// pushing the deadline; only a path quiet for the full settle interval is
// reported.
func (wr *Watcher) debounce(path string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if t, ok := wr.pending[path]; ok {
		t.Reset(wr.settle)
		return
	}
	wr.pending[path] = time.AfterFunc(wr.settle, func() {
		wr.mu.Lock()
		delete(wr.pending, path)
		wr.mu.Unlock()
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			return
		}
		wr.ready <- path
	})
}
