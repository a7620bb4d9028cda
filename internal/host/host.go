// Package host defines the port between the column marker and the editor
// that displays it.
//
// The marker never reaches into editor internals. It reads cursor, viewport
// and configuration state through Host and Editor, draws through
// CreateDecoration, and reacts to the events delivered to its Listener.
// All calls and events happen on the host's single event-dispatch goroutine.
package host

import (
	"github.com/dshills/cursorcolumn/internal/theme"
)

// Position is a cursor location in document coordinates.
type Position struct {
	Line      int
	Character int
}

// LineRange is an inclusive span of document lines.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether line lies within the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Editor is the focused text editor.
type Editor interface {
	// Selection returns the end of the primary selection.
	Selection() (Position, bool)

	// VisibleRanges returns the rendered line spans in document order.
	VisibleRanges() []LineRange

	// LineText returns the text of a document line.
	LineText(line int) (string, bool)

	// TabSize returns the editor's tab width in columns.
	TabSize() int
}

// ConfigReader looks up configuration values by dotted key.
type ConfigReader interface {
	Bool(key string) (bool, bool)
	Float(key string) (float64, bool)
}

// Decoration is a host-owned drawable. Dispose removes it from rendering;
// calling Dispose more than once has no further effect.
type Decoration interface {
	ID() string
	Dispose()
}

// Host is the editor runtime the marker plugs into.
type Host interface {
	// ActiveEditor returns the focused editor, if any.
	ActiveEditor() (Editor, bool)

	// ThemeKind returns the kind of the active color theme.
	ThemeKind() theme.Kind

	// Config returns the configuration reader.
	Config() ConfigReader

	// CreateDecoration allocates a new drawable for the active editor.
	CreateDecoration(opts DecorationOptions) Decoration

	// Subscribe registers a listener and returns a function removing it.
	Subscribe(listener Listener) (unsubscribe func())
}
