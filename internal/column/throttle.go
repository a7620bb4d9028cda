package column

import (
	"time"

	"github.com/dshills/cursorcolumn/internal/loop"
)

// Throttle runs an action at most once per window. A call made more than a
// window after the last run runs at once. Any other call schedules a single
// trailing run at the window's end, replacing any earlier one, so the last
// call of a burst always takes effect.
//
// Throttle is not safe for concurrent use. Call it and let the scheduler
// deliver timers on the same goroutine.
type Throttle struct {
	sched  loop.Scheduler
	window time.Duration
	action func()

	ran     bool
	lastRun time.Time
	pending loop.Timer
	seq     uint64 // detects stale trailing callbacks
}

// NewThrottle creates a throttle for action.
func NewThrottle(sched loop.Scheduler, window time.Duration, action func()) *Throttle {
	return &Throttle{
		sched:  sched,
		window: window,
		action: action,
	}
}

// Call requests a run.
func (t *Throttle) Call() {
	now := t.sched.Now()
	t.stopPending()

	if !t.ran || t.window <= 0 || now.Sub(t.lastRun) > t.window {
		t.run(now)
		return
	}

	t.seq++
	seq := t.seq
	delay := t.lastRun.Add(t.window).Sub(now)
	t.pending = t.sched.AfterFunc(delay, func() {
		if seq != t.seq || t.pending == nil {
			return
		}
		t.pending = nil
		t.run(t.sched.Now())
	})
}

// Pending reports whether a trailing run is scheduled.
func (t *Throttle) Pending() bool {
	return t.pending != nil
}

// Cancel drops the scheduled trailing run, if any.
func (t *Throttle) Cancel() {
	t.stopPending()
}

// Flush runs the scheduled trailing run immediately.
func (t *Throttle) Flush() {
	if t.pending == nil {
		return
	}
	t.stopPending()
	t.run(t.sched.Now())
}

func (t *Throttle) stopPending() {
	if t.pending == nil {
		return
	}
	t.pending.Stop()
	t.pending = nil
	t.seq++
}

func (t *Throttle) run(now time.Time) {
	t.ran = true
	t.lastRun = now
	if t.action != nil {
		t.action()
	}
}
