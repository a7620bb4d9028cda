package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks frame and event timing.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	eventCount    atomic.Uint64
	eventsDropped atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records render timing.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent counts a backend event handed to the loop.
func (m *Metrics) RecordEvent() {
	m.eventCount.Add(1)
}

// RecordEventDropped counts a backend event the stopped loop refused.
func (m *Metrics) RecordEventDropped() {
	m.eventsDropped.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frames := m.frameCount.Load()
	var avg int64
	if frames > 0 {
		avg = m.frameTotalNs.Load() / int64(frames)
	}
	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		FrameCount:    frames,
		AvgFrameNs:    avg,
		MaxFrameNs:    m.frameMaxNs.Load(),
		LastFrameNs:   m.lastFrameNs.Load(),
		EventCount:    m.eventCount.Load(),
		EventsDropped: m.eventsDropped.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	FrameCount    uint64
	AvgFrameNs    int64
	MaxFrameNs    int64
	LastFrameNs   int64
	EventCount    uint64
	EventsDropped uint64
}

// LastFrameMs returns the last render time in milliseconds.
func (s MetricsSnapshot) LastFrameMs() float64 {
	return float64(s.LastFrameNs) / 1e6
}
