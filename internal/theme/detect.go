package theme

import (
	"context"
	"strings"
	"time"

	"github.com/dshills/cursorcolumn/internal/logging"
)

// DefaultProbeTimeout bounds how long a probe may take before the default
// color is used.
const DefaultProbeTimeout = 500 * time.Millisecond

type probeResult struct {
	color string
	err   error
}

// Detect races the probe against the timeout. It returns the probed color
// and true, or "" and false when the probe errors, answers blank, or loses
// the race. The probe's context is cancelled before Detect returns, which
// tears down whatever the probe allocated.
func Detect(ctx context.Context, probe Probe, timeout time.Duration) (string, bool) {
	if probe == nil {
		return "", false
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan probeResult, 1)
	go func() {
		color, err := probe.Probe(ctx)
		results <- probeResult{color: color, err: err}
	}()

	select {
	case r := <-results:
		color := strings.TrimSpace(r.color)
		if r.err != nil || color == "" {
			return "", false
		}
		return color, true
	case <-ctx.Done():
		return "", false
	}
}

// Resolve returns the probed color, falling back to DefaultColor(kind).
// Probed values that do not parse also fall back.
func Resolve(ctx context.Context, probe Probe, kind Kind, timeout time.Duration) string {
	color, ok := Detect(ctx, probe, timeout)
	if !ok {
		return DefaultColor(kind)
	}
	if _, _, err := ParseColor(color); err != nil {
		return DefaultColor(kind)
	}
	return color
}

// AsyncResolver resolves colors off the event loop and delivers the result
// back onto it.
type AsyncResolver struct {
	// NewProbe builds a probe for kind. It is called on the event loop, so
	// it may read loop-owned state such as configuration.
	NewProbe func(kind Kind) Probe

	// Post schedules a function on the event loop.
	Post func(fn func()) bool

	// Timeout bounds each probe. Zero means DefaultProbeTimeout.
	Timeout time.Duration

	// Logger receives probe outcomes. Optional.
	Logger *logging.Logger

	// Context cancels in-flight probes on shutdown. Optional.
	Context context.Context
}

// Resolve starts a probe for kind and calls done with the color on the
// event loop.
func (r *AsyncResolver) Resolve(kind Kind, done func(color string)) {
	var probe Probe
	if r.NewProbe != nil {
		probe = r.NewProbe(kind)
	}
	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.Timeout

	go func() {
		start := time.Now()
		color := Resolve(ctx, probe, kind, timeout)
		if r.Logger != nil {
			r.Logger.Debug("theme color resolved", "kind", kind.String(), "color", color, "elapsed", time.Since(start))
		}
		r.Post(func() { done(color) })
	}()
}
