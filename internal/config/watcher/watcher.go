// Package watcher reports changes to a settings file.
//
// The file's directory is watched rather than the file itself, because
// editors commonly save by writing a temporary file and renaming it over
// the original. Bursts of events are debounced into one notification.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when starting a closed watcher.
var ErrClosed = errors.New("watcher closed")

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Operation is a bit set of file operations.
type Operation uint8

const (
	OpCreate Operation = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op contains other.
func (op Operation) Has(other Operation) bool {
	return op&other != 0
}

// String returns the operation names joined by "|".
func (op Operation) String() string {
	names := []struct {
		op   Operation
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
	}
	s := ""
	for _, n := range names {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Event describes a debounced change to the watched file. Op accumulates
// every operation seen during the burst.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

// Handler receives debounced events on the watcher's goroutine.
type Handler func(event Event)

// ErrorHandler receives errors from the underlying notifier.
type ErrorHandler func(err error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the error callback.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) {
		w.onError = h
	}
}

// Watcher watches one settings file.
type Watcher struct {
	path     string
	handler  Handler
	onError  ErrorHandler
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	pending Operation
	seq     uint64
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher for path. Start begins delivery.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start watches the file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop(fsw)
	return nil
}

// Close stops watching. Pending debounced events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	fsw := w.fsw
	w.mu.Unlock()

	w.wg.Wait()
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *Watcher) processLoop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	w.queue(op)
}

// queue records op and restarts the quiet period.
func (w *Watcher) queue(op Operation) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.pending |= op
	w.seq++
	seq := w.seq

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.closed || seq != w.seq || w.pending == 0 {
			w.mu.Unlock()
			return
		}
		pending := w.pending
		w.pending = 0
		w.mu.Unlock()

		if w.handler != nil {
			w.handler(Event{Path: w.path, Op: pending, Time: time.Now()})
		}
	})
}

func convertOp(fsOp fsnotify.Op) Operation {
	var op Operation
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
