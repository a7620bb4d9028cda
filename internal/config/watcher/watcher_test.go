package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertOp(t *testing.T) {
	assert.Equal(t, OpCreate|OpWrite, convertOp(fsnotify.Create|fsnotify.Write))
	assert.Equal(t, OpRename, convertOp(fsnotify.Rename))
	assert.Equal(t, Operation(0), convertOp(fsnotify.Chmod))
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "create|write", (OpCreate | OpWrite).String())
	assert.Equal(t, "none", Operation(0).String())
}

func TestDebounceCoalescesBurst(t *testing.T) {
	events := make(chan Event, 4)
	w, err := New(filepath.Join(t.TempDir(), "settings.toml"), func(ev Event) { events <- ev }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	w.queue(OpWrite)
	w.queue(OpWrite)
	w.queue(OpRename)

	select {
	case ev := <-events:
		assert.Equal(t, OpWrite|OpRename, ev.Op)
		assert.Equal(t, w.Path(), ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no debounced event")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected second event %v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	events := make(chan Event, 4)
	w, err := New(filepath.Join(dir, "settings.toml"), func(ev Event) { events <- ev }, WithDebounce(time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	w.handleFSEvent(fsnotify.Event{Name: filepath.Join(dir, "other.toml"), Op: fsnotify.Write})

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestWatchFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	events := make(chan Event, 4)
	w, err := New(path, func(ev Event) { events <- ev }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0o644))

	select {
	case ev := <-events:
		assert.True(t, ev.Op.Has(OpWrite) || ev.Op.Has(OpCreate))
	case <-time.After(5 * time.Second):
		t.Fatal("no event for write")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "s.json"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Start(), ErrClosed)
}
