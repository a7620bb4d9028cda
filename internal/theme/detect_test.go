package theme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func blockingProbe() (Probe, <-chan struct{}) {
	released := make(chan struct{})
	return ProbeFunc(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		close(released)
		return "", ctx.Err()
	}), released
}

func TestDetectAnswer(t *testing.T) {
	probe := ProbeFunc(func(context.Context) (string, error) { return " #abcdef ", nil })

	color, ok := Detect(context.Background(), probe, time.Second)
	assert.True(t, ok)
	assert.Equal(t, "#abcdef", color)
}

func TestDetectTimeoutCancelsProbe(t *testing.T) {
	probe, released := blockingProbe()

	start := time.Now()
	color, ok := Detect(context.Background(), probe, 30*time.Millisecond)
	assert.False(t, ok)
	assert.Empty(t, color)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("probe context was not cancelled")
	}
}

func TestDetectErrorAndBlank(t *testing.T) {
	failing := ProbeFunc(func(context.Context) (string, error) { return "#ffffff", errors.New("boom") })
	_, ok := Detect(context.Background(), failing, time.Second)
	assert.False(t, ok)

	blank := ProbeFunc(func(context.Context) (string, error) { return "   ", nil })
	_, ok = Detect(context.Background(), blank, time.Second)
	assert.False(t, ok)

	_, ok = Detect(context.Background(), nil, time.Second)
	assert.False(t, ok)
}

func TestResolveTimeoutFallsBackForDark(t *testing.T) {
	probe, _ := blockingProbe()

	color := Resolve(context.Background(), probe, Dark, 20*time.Millisecond)
	assert.Equal(t, "rgba(255,255,255,0.04)", stripSpaces(color))
}

func TestResolveFallbacks(t *testing.T) {
	garbage := ProbeFunc(func(context.Context) (string, error) { return "not-a-color", nil })
	assert.Equal(t, DefaultLightColor, Resolve(context.Background(), garbage, Light, time.Second))

	good := ProbeFunc(func(context.Context) (string, error) { return "#123456", nil })
	assert.Equal(t, "#123456", Resolve(context.Background(), good, Light, time.Second))
}

func TestResolveWithLuaProbeTimeout(t *testing.T) {
	probe := NewLuaProbe(Dark, nil, `while true do end`)
	assert.Equal(t, DefaultDarkColor, Resolve(context.Background(), probe, Dark, 30*time.Millisecond))
}

func TestAsyncResolverPostsResult(t *testing.T) {
	posted := make(chan func(), 1)
	r := &AsyncResolver{
		NewProbe: func(kind Kind) Probe {
			return NewLuaProbe(kind, map[string]string{ColorKey: "#0a0b0c"}, "")
		},
		Post:    func(fn func()) bool { posted <- fn; return true },
		Timeout: time.Second,
	}

	var got string
	r.Resolve(Light, func(color string) { got = color })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("result was not posted")
	}
	assert.Equal(t, "#0a0b0c", got)
}

func TestAsyncResolverWithoutProbeUsesDefault(t *testing.T) {
	posted := make(chan func(), 1)
	r := &AsyncResolver{Post: func(fn func()) bool { posted <- fn; return true }}

	var got string
	r.Resolve(HighContrast, func(color string) { got = color })
	(<-posted)()
	assert.Equal(t, DefaultDarkColor, got)
}

func stripSpaces(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}
