package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLiveEditTracking(t *testing.T) {
	w := New("/repo")
	if _, ok := w.GetTimeLiveModified("a.tex"); ok {
		t.Fatalf("expected no live-edit timestamp before NoteLiveEdit")
	}
	now := time.Now()
	w.NoteLiveEdit("a.tex", now)
	got, ok := w.GetTimeLiveModified("a.tex")
	if !ok || !got.Equal(now) {
		t.Fatalf("GetTimeLiveModified = %v, %v; want %v, true", got, ok, now)
	}
}

func TestOpenCloseClearsLiveEdit(t *testing.T) {
	w := New("/repo")
	w.Open("a.tex")
	w.NoteLiveEdit("a.tex", time.Now())
	if !w.IsOpen("a.tex") {
		t.Fatalf("expected a.tex to be open")
	}
	w.Close("a.tex")
	if w.IsOpen("a.tex") {
		t.Fatalf("expected a.tex to be closed")
	}
	if _, ok := w.GetTimeLiveModified("a.tex"); ok {
		t.Fatalf("expected live-edit timestamp to be cleared on Close")
	}
}

func TestChangesDrainsPending(t *testing.T) {
	w := New("/repo")
	w.noteCreated("a.tex")
	w.noteModified("b.tex")
	w.noteDeleted("c.tex")

	c := w.Changes()
	if len(c.Created) != 1 || len(c.Modified) != 1 || len(c.Deleted) != 1 {
		t.Fatalf("Changes = %+v, want one of each", c)
	}
	if empty := w.Changes(); len(empty.Created)+len(empty.Modified)+len(empty.Deleted) != 0 {
		t.Fatalf("Changes should be empty after draining, got %+v", empty)
	}
}

func TestWatcherObservesFileCreation(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	watcher, err := NewWatcher(ws)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	path := filepath.Join(root, "new.tex")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c := ws.Changes(); len(c.Created) > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected the watcher to observe the new file within the deadline")
}
