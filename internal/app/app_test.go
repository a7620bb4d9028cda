package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cursorcolumn/internal/column"
	"github.com/dshills/cursorcolumn/internal/config"
	"github.com/dshills/cursorcolumn/internal/host"
	"github.com/dshills/cursorcolumn/internal/renderer/backend"
	"github.com/dshills/cursorcolumn/internal/theme"
)

const sample = "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"

type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: map[string][]byte{}}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(path string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) read(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.files[path])
}

// running starts app.Run on a null backend and returns the backend and a
// channel carrying Run's result.
func running(t *testing.T, app *Application) (*backend.NullBackend, <-chan error) {
	t.Helper()
	b := backend.NewNullBackend(60, 12)
	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- app.Run(context.Background(), b)
		close(finished)
	}()
	t.Cleanup(func() {
		b.PostEvent(key(backend.KeyCtrlC))
		select {
		case <-finished:
		case <-time.After(2 * time.Second):
		}
		app.Close()
	})
	return b, done
}

// ask evaluates fn on the event loop. It reports false if the loop is gone.
func ask[T any](app *Application, fn func() T) (T, bool) {
	var zero T
	out := make(chan T, 1)
	if !app.Post(func() { out <- fn() }) {
		return zero, false
	}
	select {
	case v := <-out:
		return v, true
	case <-time.After(time.Second):
		return zero, false
	}
}

func onLoop[T any](t *testing.T, app *Application, fn func() T) T {
	t.Helper()
	v, ok := ask(app, fn)
	require.True(t, ok, "loop did not answer")
	return v
}

func eventually(t *testing.T, app *Application, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		ok, answered := ask(app, cond)
		return answered && ok
	}, 2*time.Second, 10*time.Millisecond)
}

func markerDrawn(app *Application) func() bool {
	return func() bool {
		_, ok := app.Column().Current()
		return ok
	}
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func runeKey(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func TestNewScratchDocument(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	defer app.Close()

	doc := app.View().Document()
	assert.Equal(t, ScratchName, doc.Name())
	assert.Equal(t, 5, doc.LineCount())
	assert.Equal(t, theme.Dark, app.View().ThemeKind())
	assert.Equal(t, 4, app.View().TabSize())
}

func TestNewThemeOverride(t *testing.T) {
	app, err := New(Options{Theme: "light"})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, theme.Light, app.View().ThemeKind())
	kind, _ := app.Config().String(config.KeyThemeKind)
	assert.Equal(t, "light", kind)
}

func TestNewOpensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	app, err := New(Options{File: path})
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, "main.go", app.View().Document().Name())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		component string
	}{
		{
			name:      "missing document",
			opts:      Options{File: filepath.Join(t.TempDir(), "absent.txt")},
			component: "document",
		},
		{
			name: "malformed settings",
			opts: Options{
				ConfigPath: "settings.toml",
				FileSystem: newMemFS(map[string]string{"settings.toml": "[editor\ntabSize = 4"}),
			},
			component: "config",
		},
		{
			name:      "unknown settings format",
			opts:      Options{ConfigPath: "settings.ini"},
			component: "config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
			var initErr *InitError
			require.True(t, errors.As(err, &initErr))
			assert.Equal(t, tt.component, initErr.Component)
		})
	}
}

func TestNewReadsSettings(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"settings.yaml": "editor:\n  tabSize: 8\ncursor-column:\n  disabled: true\n",
	})
	app, err := New(Options{ConfigPath: "settings.yaml", FileSystem: fsys})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 8, app.View().TabSize())
	disabled, _ := app.Config().Bool(config.KeyDisabled)
	assert.True(t, disabled)
}

func TestRunWithoutBackend(t *testing.T) {
	app, err := New(Options{})
	require.NoError(t, err)
	defer app.Close()
	assert.ErrorIs(t, app.Run(context.Background(), nil), ErrNoBackend)
}

func TestRunDrawsMarkerAndQuits(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	b, done := running(t, app)

	eventually(t, app, markerDrawn(app))
	assert.Equal(t, theme.DefaultDarkColor, onLoop(t, app, app.Column().Color))

	b.PostEvent(runeKey('j'))
	b.PostEvent(runeKey('j'))
	b.PostEvent(runeKey('j'))
	b.PostEvent(runeKey('l'))
	eventually(t, app, func() bool {
		pos, _ := app.View().Selection()
		return pos == host.Position{Line: 3, Character: 1}
	})
	eventually(t, app, func() bool {
		s, ok := app.Column().Strategy()
		return ok && s.Kind == column.CursorBound && s.Offset.Columns == 4
	})

	b.PostEvent(runeKey('q'))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	_, live := app.Column().Current()
	assert.False(t, live)
	assert.Equal(t, 0, app.View().Overlays().Count())
	creates, disposes := app.Column().Stats()
	assert.Equal(t, creates, disposes)
	assert.Positive(t, b.ShowCount())
	assert.Positive(t, app.Metrics().Snapshot().EventCount)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, backend.NewNullBackend(40, 10)) }()

	eventually(t, app, markerDrawn(app))
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, app.IsRunning())
}

func TestToggleMarkerKey(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	b, _ := running(t, app)
	eventually(t, app, markerDrawn(app))

	b.PostEvent(runeKey('c'))
	eventually(t, app, func() bool {
		_, live := app.Column().Current()
		return !app.Column().Enabled() && !live
	})
	disabled := onLoop(t, app, func() bool {
		v, _ := app.Config().Bool(config.KeyDisabled)
		return v
	})
	assert.True(t, disabled)

	b.PostEvent(runeKey('c'))
	eventually(t, app, markerDrawn(app))
}

func TestThemeKeyRecolorsMarker(t *testing.T) {
	app, err := New(Options{Text: sample, Theme: "dark"})
	require.NoError(t, err)
	b, _ := running(t, app)
	eventually(t, app, markerDrawn(app))

	b.PostEvent(runeKey('t'))
	eventually(t, app, func() bool {
		return app.View().ThemeKind() == theme.HighContrast && app.Column().Color() == theme.DefaultDarkColor
	})

	b.PostEvent(runeKey('t'))
	eventually(t, app, func() bool {
		return app.View().ThemeKind() == theme.HighContrastLight && app.Column().Color() == theme.DefaultLightColor
	})
	kind := onLoop(t, app, func() string {
		s, _ := app.Config().String(config.KeyThemeKind)
		return s
	})
	assert.Equal(t, "high-contrast-light", kind)
}

func TestThemeColorsProbe(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"settings.toml": "[theme.colors]\ncursorColumn = \"#336699\"\n",
	})
	app, err := New(Options{Text: sample, ConfigPath: "settings.toml", FileSystem: fsys})
	require.NoError(t, err)
	running(t, app)

	eventually(t, app, func() bool { return app.Column().Color() == "#336699" })

	require.True(t, app.Post(func() {
		_ = app.Config().Set("theme.colors.cursorColumn", "rgba(1, 2, 3, 0.5)")
	}))
	eventually(t, app, func() bool { return app.Column().Color() == "rgba(1, 2, 3, 0.5)" })
}

func TestSaveSettings(t *testing.T) {
	fsys := newMemFS(nil)
	app, err := New(Options{Text: sample, ConfigPath: "settings.json", FileSystem: fsys})
	require.NoError(t, err)
	b, _ := running(t, app)
	eventually(t, app, markerDrawn(app))

	b.PostEvent(runeKey('c'))
	b.PostEvent(key(backend.KeyCtrlS))
	eventually(t, app, func() bool { return app.message == "settings saved" })
	assert.Contains(t, fsys.read("settings.json"), `"cursor-column.disabled": true`)
}

func TestSaveSettingsWithoutFile(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	b, _ := running(t, app)

	b.PostEvent(key(backend.KeyCtrlS))
	eventually(t, app, func() bool { return app.message == "no settings file" })
}

func TestResizeAndScrollEvents(t *testing.T) {
	app, err := New(Options{Text: sample})
	require.NoError(t, err)
	b, _ := running(t, app)

	b.PostEvent(backend.Event{Type: backend.EventResize, Width: 30, Height: 3})
	eventually(t, app, func() bool {
		w, h := app.View().Size()
		return w == 30 && h == 3
	})

	b.PostEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelDown})
	eventually(t, app, func() bool { return app.View().Top() == 3 })

	pos := onLoop(t, app, func() host.Position {
		p, _ := app.View().Selection()
		return p
	})
	assert.Equal(t, host.Position{}, pos)
}

func TestReloadOnSettingsFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cursor-column]\ndisabled = false\n"), 0o644))

	app, err := New(Options{Text: sample, ConfigPath: path, Watch: true})
	require.NoError(t, err)
	running(t, app)
	eventually(t, app, markerDrawn(app))

	require.NoError(t, os.WriteFile(path, []byte("[cursor-column]\ndisabled = true\n"), 0o644))
	require.Eventually(t, func() bool {
		enabled, answered := ask(app, app.Column().Enabled)
		return answered && !enabled
	}, 5*time.Second, 20*time.Millisecond)
}

func TestReloadReportsMalformedSettings(t *testing.T) {
	fsys := newMemFS(map[string]string{"settings.toml": "[cursor-column]\ndisabled = true\n"})
	app, err := New(Options{Text: sample, ConfigPath: "settings.toml", FileSystem: fsys})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	require.NoError(t, fsys.WriteFile("settings.toml", []byte("[cursor-column\ndisabled = "), 0o644))
	app.reloadConfig()
	assert.Equal(t, "settings syntax error", app.message)

	disabled, _ := app.Config().Bool(config.KeyDisabled)
	assert.True(t, disabled, "previous settings stay in effect")

	require.NoError(t, fsys.WriteFile("settings.toml", []byte("[cursor-column]\ndisabled = false\n"), 0o644))
	app.reloadConfig()
	assert.Equal(t, "settings reloaded", app.message)
}
