package loop

import (
	"sort"
	"time"
)

// ManualScheduler is a virtual clock. Timers fire only from Advance, on
// the caller's goroutine, in deadline order.
type ManualScheduler struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManualScheduler creates a scheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Time {
	return s.now
}

// AfterFunc schedules fn at Now()+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{
		sched: s,
		at:    s.now.Add(d),
		seq:   s.seq,
		fn:    fn,
	}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers. Timers
// scheduled by callbacks fire too if they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.now.Add(d))
}

// AdvanceTo moves the clock to target, firing due timers.
func (s *ManualScheduler) AdvanceTo(target time.Time) {
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		s.remove(next)
		next.fn()
	}
	if target.After(s.now) {
		s.now = target
	}
}

// Pending returns the number of scheduled timers.
func (s *ManualScheduler) Pending() int {
	return len(s.timers)
}

func (s *ManualScheduler) nextDue(target time.Time) *manualTimer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at.Equal(s.timers[j].at) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at.Before(s.timers[j].at)
	})
	if s.timers[0].at.After(target) {
		return nil
	}
	return s.timers[0]
}

func (s *ManualScheduler) remove(t *manualTimer) bool {
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	sched *ManualScheduler
	at    time.Time
	seq   uint64
	fn    func()
}

func (t *manualTimer) Stop() bool {
	return t.sched.remove(t)
}
