// Package loop provides single-threaded event dispatch.
//
// Every host event, timer callback and probe result runs as a task on one
// goroutine, so the state those tasks touch needs no locking.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned by Run after Stop is called.
var ErrStopped = errors.New("loop stopped")

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped the timer before its callback ran.
	Stop() bool
}

// Scheduler provides the clock and deferred execution used by throttles.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop runs posted tasks one at a time on the goroutine that calls Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// Option configures a Loop.
type Option func(*Loop)

// WithBuffer sets the task queue capacity.
func WithBuffer(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		tasks: make(chan func(), 256),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues fn. It blocks while the queue is full and returns false
// once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// AfterFunc runs fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have raced with the post.
			if t.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Run executes tasks until ctx is cancelled or Stop is called. afterEach,
// when non-nil, runs after every task (the app renders there).
func (l *Loop) Run(ctx context.Context, afterEach func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrStopped
		case fn := <-l.tasks:
			fn()
			l.drain(afterEach)
		}
	}
}

// drain runs queued tasks before the next afterEach so bursts coalesce
// into a single frame.
func (l *Loop) drain(afterEach func()) {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			if afterEach != nil {
				afterEach()
			}
			return
		}
	}
}

// Stop terminates Run. Pending tasks are discarded.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once Stop has been called.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
