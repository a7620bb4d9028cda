// Package app wires the viewer, the column marker and the settings store
// together and runs them on one event loop.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dshills/cursorcolumn/internal/column"
	"github.com/dshills/cursorcolumn/internal/config"
	"github.com/dshills/cursorcolumn/internal/config/loader"
	"github.com/dshills/cursorcolumn/internal/config/notify"
	"github.com/dshills/cursorcolumn/internal/config/watcher"
	"github.com/dshills/cursorcolumn/internal/host"
	"github.com/dshills/cursorcolumn/internal/logging"
	"github.com/dshills/cursorcolumn/internal/loop"
	"github.com/dshills/cursorcolumn/internal/renderer/backend"
	"github.com/dshills/cursorcolumn/internal/theme"
	"github.com/dshills/cursorcolumn/internal/viewer"
)

// ScratchName names the document shown when no file is given.
const ScratchName = "[scratch]"

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means defaults only.
	ConfigPath string

	// File is the document to open. Empty opens a scratch document
	// holding Text.
	File string
	Text string

	// Theme overrides the theme.kind setting when non-empty.
	Theme string

	// Watch reloads settings when the settings file changes.
	Watch bool

	// Logger receives application logs. Defaults to a discarding logger.
	Logger *logging.Logger

	// FileSystem backs the settings file. Defaults to the OS.
	FileSystem loader.FileSystem
}

// Application owns every component and the event loop they share.
type Application struct {
	opts    Options
	logger  *logging.Logger
	metrics *Metrics

	store     *config.Store
	configSub *notify.Subscription
	watcher   *watcher.Watcher

	loop     *loop.Loop
	view     *viewer.View
	column   *column.Controller
	resolver *theme.AsyncResolver

	ctx    context.Context
	cancel context.CancelFunc

	running atomic.Bool
	message string
}

// New creates an application. It loads settings and the document but
// touches no terminal.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		logger:  opts.Logger,
		metrics: NewMetrics(),
		loop:    loop.New(),
	}
	if app.logger == nil {
		app.logger = logging.Nop()
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	if err := app.bootstrap(); err != nil {
		app.cancel()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings
	storeOpts := []config.Option{config.WithFileSystem(app.opts.FileSystem)}
	if app.opts.ConfigPath != "" {
		storeOpts = append(storeOpts, config.WithPath(app.opts.ConfigPath))
	}
	store, err := config.New(storeOpts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := store.Load(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.store = store
	if app.opts.Theme != "" {
		if err := store.Set(config.KeyThemeKind, theme.ParseKind(app.opts.Theme).String()); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	// 2. Document and view
	doc := viewer.NewDocument(ScratchName, app.opts.Text)
	if app.opts.File != "" {
		doc, err = viewer.LoadDocument(app.opts.File)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
	}
	kindName, _ := store.String(config.KeyThemeKind)
	app.view = viewer.NewView(doc, store,
		viewer.WithThemeKind(theme.ParseKind(kindName)),
		viewer.WithStatus(app.statusText),
	)

	// 3. Marker
	app.resolver = &theme.AsyncResolver{
		NewProbe: app.newProbe,
		Post:     app.loop.Post,
		Timeout:  app.millis(config.KeyProbeTimeoutMs, theme.DefaultProbeTimeout),
		Logger:   app.logger.WithComponent("theme"),
		Context:  app.ctx,
	}
	app.column = column.NewController(app.view,
		column.WithLogger(app.logger),
		column.WithColorResolver(app.resolver),
		column.WithScheduler(app.loop),
		column.WithThrottleWindow(app.millis(config.KeyThrottleMs, column.DefaultThrottleWindow)),
	)

	// 4. Settings changes reach the view as host events.
	app.configSub = store.Subscribe(app.onConfigChange)

	app.logger.Info("application initialized",
		"document", doc.Name(),
		"lines", doc.LineCount(),
		"config", app.opts.ConfigPath,
		"theme", kindName)
	return nil
}

// Run initializes b and processes events until quit or ctx is done.
func (app *Application) Run(ctx context.Context, b backend.Backend) error {
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.view.Resize(b.Size())
	app.loop.Post(app.column.Start)
	app.startWatcher()
	go app.pump(b)

	err := app.loop.Run(ctx, func() { app.render(b) })
	app.shutdown()

	if errors.Is(err, loop.ErrStopped) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pump moves backend events onto the loop until the backend closes.
func (app *Application) pump(b backend.Backend) {
	for {
		ev := b.PollEvent()
		if ev.Type == backend.EventNone {
			return
		}
		app.metrics.RecordEvent()
		if !app.loop.Post(func() { app.dispatch(ev) }) {
			app.metrics.RecordEventDropped()
			return
		}
	}
}

func (app *Application) dispatch(ev backend.Event) {
	if err := app.handleBackendEvent(ev); errors.Is(err, ErrQuit) {
		app.loop.Stop()
	}
}

func (app *Application) render(b backend.Backend) {
	start := time.Now()
	app.view.Render(b)
	app.metrics.RecordFrame(time.Since(start))
}

func (app *Application) startWatcher() {
	if !app.opts.Watch || app.opts.ConfigPath == "" {
		return
	}
	log := app.logger.WithComponent("watcher")
	w, err := watcher.New(app.opts.ConfigPath,
		func(ev watcher.Event) {
			log.Debug("settings file changed", "op", ev.Op.String())
			app.loop.Post(app.reloadConfig)
		},
		watcher.WithErrorHandler(func(err error) {
			log.Warn("watch error", "error", err)
		}),
	)
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		log.Warn("settings watch disabled", "error", NewComponentError("watcher", "start", err))
		return
	}
	app.watcher = w
}

func (app *Application) reloadConfig() {
	if err := app.store.Reload(); err != nil {
		if config.IsParseError(err) {
			app.logger.Warn("settings file is malformed, keeping previous settings", "path", app.store.Path(), "error", err)
			app.message = "settings syntax error"
			return
		}
		app.logger.Warn("settings reload failed, keeping previous settings", "error", err)
		app.message = "settings error"
		return
	}
	app.message = "settings reloaded"
}

// shutdown releases components in reverse initialization order. It runs
// on the loop goroutine after the loop has returned.
func (app *Application) shutdown() {
	var errs ErrorList

	app.column.Stop()
	app.cancel()
	if app.watcher != nil {
		errs.Add(app.watcher.Close())
		app.watcher = nil
	}
	app.configSub.Unsubscribe()
	app.loop.Stop()

	if err := errs.AsError(); err != nil {
		app.logger.Warn("shutdown", "error", err)
	}
	snap := app.metrics.Snapshot()
	creates, disposes := app.column.Stats()
	app.logger.Info("application stopped",
		"uptime", snap.Uptime,
		"frames", snap.FrameCount,
		"events", snap.EventCount,
		"marker_creates", creates,
		"marker_disposes", disposes)
}

// Close releases the settings store. Call it after Run has returned.
func (app *Application) Close() {
	app.cancel()
	app.store.Close()
}

// onConfigChange runs on whichever goroutine changed the store, which is
// always the loop.
func (app *Application) onConfigChange(change notify.Change) {
	switch {
	case change.Path == config.KeyThemeKind:
		name, _ := change.NewValue.(string)
		app.view.SetThemeKind(theme.ParseKind(name))
	case change.Path == config.KeyThemeScript || host.AffectsConfiguration(change.Path, config.KeyThemeColors):
		app.view.ReloadTheme()
	case change.Path == config.KeyProbeTimeoutMs:
		app.resolver.Timeout = app.millis(config.KeyProbeTimeoutMs, theme.DefaultProbeTimeout)
	}
	app.view.ConfigChanged(change.Path)
}

// newProbe builds a Lua probe from the theme settings.
func (app *Application) newProbe(kind theme.Kind) theme.Probe {
	colors := app.store.StringMap(config.KeyThemeColors)
	script, _ := app.store.String(config.KeyThemeScript)
	if script == "" {
		return theme.NewLuaProbe(kind, colors, "")
	}
	if !filepath.IsAbs(script) && app.opts.ConfigPath != "" {
		script = filepath.Join(filepath.Dir(app.opts.ConfigPath), script)
	}
	src, err := os.ReadFile(script)
	if err != nil {
		app.logger.Debug("theme script unreadable", "path", script, "error", err)
		return theme.NewLuaProbe(kind, colors, "")
	}
	return theme.NewLuaProbe(kind, colors, string(src))
}

func (app *Application) millis(key string, fallback time.Duration) time.Duration {
	ms, ok := app.store.Float(key)
	if !ok || ms < 0 {
		return fallback
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// View returns the viewer.
func (app *Application) View() *viewer.View {
	return app.view
}

// Config returns the settings store.
func (app *Application) Config() *config.Store {
	return app.store
}

// Column returns the marker controller.
func (app *Application) Column() *column.Controller {
	return app.column
}

// Metrics returns the frame and event counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Post runs fn on the event loop.
func (app *Application) Post(fn func()) bool {
	return app.loop.Post(fn)
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}
