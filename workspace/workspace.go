// Package workspace tracks a project's known files, editor-reported live
// edits, and open-file set, and watches the filesystem for the
// created/modified/deleted changes the Linker's incrementality rules
// (§4.4.3) consume.
package workspace

import (
	"sync"
	"time"
)

// Changes is the created/modified/deleted triple spec.md §6 requires
// from a workspace's change-query surface.
type Changes struct {
	Created  []string
	Modified []string
	Deleted  []string
}

// Workspace tracks one project root: which files are known to exist,
// per-file "live edit" timestamps an editor integration reports ahead
// of an on-disk save, the open-file set, and the pending change sets a
// filesystem watcher accumulates between polls.
type Workspace struct {
	root string

	mu        sync.Mutex
	known     map[string]bool
	liveEdits map[string]time.Time
	open      map[string]bool
	pending   Changes
}

// New constructs an empty Workspace rooted at root.
func New(root string) *Workspace {
	return &Workspace{
		root:      root,
		known:     map[string]bool{},
		liveEdits: map[string]time.Time{},
		open:      map[string]bool{},
	}
}

func (w *Workspace) Root() string { return w.root }

// NoteLiveEdit records that path has unsaved editor content newer than
// whatever is on disk, at timestamp t. The Linker's relink_required
// (§4.4.3) treats this the same as a file mtime change.
func (w *Workspace) NoteLiveEdit(path string, t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.liveEdits[path] = t
}

// GetTimeLiveModified returns path's live-edit timestamp, if any.
func (w *Workspace) GetTimeLiveModified(path string) (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.liveEdits[path]
	return t, ok
}

// Open marks path as open in the editor; Close clears an editor's live
// edit once the file is saved and the live-edit timestamp is no longer
// needed.
func (w *Workspace) Open(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open[path] = true
}

func (w *Workspace) Close(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.open, path)
	delete(w.liveEdits, path)
}

func (w *Workspace) IsOpen(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open[path]
}

// noteCreated/noteModified/noteDeleted are called by the Watcher as
// fsnotify events arrive.
func (w *Workspace) noteCreated(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.known[path] = true
	w.pending.Created = append(w.pending.Created, path)
}

func (w *Workspace) noteModified(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending.Modified = append(w.pending.Modified, path)
}

func (w *Workspace) noteDeleted(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.known, path)
	delete(w.liveEdits, path)
	w.pending.Deleted = append(w.pending.Deleted, path)
}

// Changes drains and returns every change accumulated since the last
// call, per spec.md §6's changes() query.
func (w *Workspace) Changes() Changes {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.pending
	w.pending = Changes{}
	return c
}

// KnownFiles returns every file whose creation the Watcher has reported
// and that has not been deleted since, in no particular order. Files that
// existed before the Watcher started, or that were only modified, are
// not included.
func (w *Workspace) KnownFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.known))
	for f := range w.known {
		out = append(out, f)
	}
	return out
}
