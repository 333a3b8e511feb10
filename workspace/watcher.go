package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"stexls/logging"
)

// Watcher recursively watches a Workspace's root directory with
// fsnotify and feeds created/modified/deleted events into it, the same
// dependency the teacher repo uses to mirror a directory tree, redirected
// here to drive the Linker's cache invalidation instead.
type Watcher struct {
	ws      *Workspace
	watcher *fsnotify.Watcher
}

// NewWatcher creates a Watcher over ws's root, adding every existing
// subdirectory (fsnotify watches are non-recursive) so new files
// anywhere under the root are observed.
func NewWatcher(ws *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{ws: ws, watcher: fsw}

	err = filepath.WalkDir(ws.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run consumes fsnotify events until ctx is cancelled or the watcher is
// closed. Run is meant to be started in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn("workspace watcher error", "error", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Has(fsnotify.Create):
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			w.watcher.Add(path)
			return
		}
		w.ws.noteCreated(path)
	case event.Has(fsnotify.Write):
		w.ws.noteModified(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.ws.noteDeleted(path)
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
