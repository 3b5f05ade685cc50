package expand

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// Watcher re-expands source files when they change on disk.
type Watcher struct {
	exp      *Expander
	watcher  *fsnotify.Watcher
	files    []string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher watches files, which must already exist. Directories holding
// them are watched so that editors replacing a file on save are noticed.
func (e *Expander) NewWatcher(files []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	abs := make([]string, 0, len(files))
	dirs := map[string]bool{}
	for _, f := range files {
		a, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolve %s", f)
		}
		abs = append(abs, a)
		dir := filepath.Dir(a)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = true
	}
	return &Watcher{
		exp:      e,
		watcher:  fw,
		files:    abs,
		debounce: debounce,
		timers:   map[string]*time.Timer{},
	}, nil
}

// Run delivers a fresh Result to fn after each change to a watched file,
// until ctx is done. fn is never called concurrently, and never after Run
// returns.
func (w *Watcher) Run(ctx context.Context, fn func(*Result)) error {
	defer w.watcher.Close()
	var (
		fnMu sync.Mutex
		done bool
	)
	defer func() {
		w.stopTimers()
		fnMu.Lock()
		done = true
		fnMu.Unlock()
	}()
	deliver := func(path string) {
		res, err := w.exp.File(path)
		if err != nil {
			w.exp.log.Warnw("watched file vanished", "file", path, "error", err)
			return
		}
		fnMu.Lock()
		defer fnMu.Unlock()
		if done {
			return
		}
		fn(res)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !slices.Contains(w.files, path) {
				continue
			}
			w.exp.log.Debugw("watched file changed", "file", path, "op", ev.Op.String())
			w.schedule(path, deliver)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.exp.log.Warnw("file watcher error", "error", err)
		}
	}
}

// schedule coalesces bursts of events on path into one re-expansion.
func (w *Watcher) schedule(path string, deliver func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { deliver(path) })
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}
