package app

import (
	"errors"
	"fmt"

	"github.com/dshills/cursorcolumn/internal/config"
	"github.com/dshills/cursorcolumn/internal/renderer/backend"
)

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// handleBackendEvent routes a backend event. It returns ErrQuit when the
// application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.view.Resize(ev.Width, ev.Height)
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouse(ev)
	}
	return nil
}

func (app *Application) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.view.ScrollBy(-wheelLines)
	case backend.MouseWheelDown:
		app.view.ScrollBy(wheelLines)
	}
}

// handleKey applies the key bindings:
//
//	arrows, h j k l    move the cursor
//	PgUp, PgDn         page
//	Ctrl-E, Ctrl-Y     scroll one line without moving the cursor
//	Home/0, End/$      line start and end
//	t                  cycle the theme kind
//	c                  toggle the marker
//	z                  toggle the fold at the cursor
//	Ctrl-S             save settings
//	q, Esc, Ctrl-C     quit
func (app *Application) handleKey(ev backend.Event) error {
	app.message = ""

	switch ev.Key {
	case backend.KeyUp:
		app.view.MoveVertical(-1)
	case backend.KeyDown:
		app.view.MoveVertical(1)
	case backend.KeyLeft:
		app.view.MoveHorizontal(-1)
	case backend.KeyRight:
		app.view.MoveHorizontal(1)
	case backend.KeyPageUp:
		app.view.PageUp()
	case backend.KeyPageDown:
		app.view.PageDown()
	case backend.KeyCtrlE:
		app.view.ScrollBy(1)
	case backend.KeyCtrlY:
		app.view.ScrollBy(-1)
	case backend.KeyHome:
		app.view.Home()
	case backend.KeyEnd:
		app.view.End()
	case backend.KeyCtrlS:
		app.saveSettings()
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	}
	return nil
}

func (app *Application) handleRune(r rune) error {
	switch r {
	case 'k':
		app.view.MoveVertical(-1)
	case 'j':
		app.view.MoveVertical(1)
	case 'h':
		app.view.MoveHorizontal(-1)
	case 'l':
		app.view.MoveHorizontal(1)
	case '0':
		app.view.Home()
	case '$':
		app.view.End()
	case 't':
		app.set(config.KeyThemeKind, app.view.ThemeKind().Next().String())
	case 'c':
		disabled, _ := app.store.Bool(config.KeyDisabled)
		app.set(config.KeyDisabled, !disabled)
	case 'z':
		if !app.view.ToggleFold() {
			app.message = "nothing to fold"
		}
	case 'q':
		return ErrQuit
	}
	return nil
}

// set changes a session setting. The store notifies onConfigChange, which
// forwards the change to the view.
func (app *Application) set(key string, value any) {
	if err := app.store.Set(key, value); err != nil {
		app.logger.Warn("setting rejected", "key", key, "error", err)
		app.message = err.Error()
	}
}

func (app *Application) saveSettings() {
	err := app.store.Save()
	switch {
	case errors.Is(err, config.ErrNoFile):
		app.message = "no settings file"
	case err != nil:
		app.logger.Error("save settings", "error", err)
		app.message = "save failed"
	default:
		app.message = "settings saved"
	}
}

// statusText is the right side of the status line.
func (app *Application) statusText() string {
	marker := "off"
	if app.column.Enabled() {
		marker = "on"
		if s, ok := app.column.Strategy(); ok {
			marker = s.Kind.String()
		}
	}
	text := fmt.Sprintf("marker:%s  %.1fms", marker, app.metrics.Snapshot().LastFrameMs())
	if app.message != "" {
		text = app.message + "  " + text
	}
	return text
}
