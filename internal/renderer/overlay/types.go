// Package overlay holds decorations drawn on top of document text.
package overlay

import (
	"github.com/dshills/cursorcolumn/internal/renderer/core"
)

// Type represents the kind of overlay.
type Type uint8

const (
	// TypeColumnMarker is a translucent vertical strip at a visual column.
	TypeColumnMarker Type = iota
)

// String returns the string representation of the overlay type.
func (t Type) String() string {
	switch t {
	case TypeColumnMarker:
		return "column-marker"
	default:
		return "unknown"
	}
}

// Priority orders overlays. Higher priority overlays are composited last.
type Priority uint8

const (
	PriorityLow    Priority = 50
	PriorityNormal Priority = 100
	PriorityHigh   Priority = 150
)

// Shade tints one cell of a document line.
type Shade struct {
	// Col is the cell column relative to the start of the text area.
	Col int

	// Color is blended onto the cell background with Alpha.
	Color core.Color
	Alpha float64
}

// Overlay is a visual layer on the editor content.
type Overlay interface {
	// ID returns the unique identifier for this overlay.
	ID() string

	// Type returns the type of overlay.
	Type() Type

	// Priority returns the compositing priority.
	Priority() Priority

	// IsVisible returns true if the overlay should be rendered.
	IsVisible() bool

	// ShadesForLine returns the tints for a document line, or nil.
	ShadesForLine(line int) []Shade
}

// BaseOverlay provides common functionality for overlay implementations.
type BaseOverlay struct {
	id       string
	typ      Type
	priority Priority
}

// NewBaseOverlay creates a new base overlay.
func NewBaseOverlay(id string, typ Type, priority Priority) *BaseOverlay {
	return &BaseOverlay{
		id:       id,
		typ:      typ,
		priority: priority,
	}
}

// ID returns the overlay ID.
func (o *BaseOverlay) ID() string {
	return o.id
}

// Type returns the overlay type.
func (o *BaseOverlay) Type() Type {
	return o.typ
}

// Priority returns the overlay priority.
func (o *BaseOverlay) Priority() Priority {
	return o.priority
}

// IsVisible returns true. Overlays that can hide override it.
func (o *BaseOverlay) IsVisible() bool {
	return true
}

// ApplyShade blends a shade onto a style's background. A default
// background is replaced by fallback first.
func ApplyShade(base core.Style, shade Shade, fallback core.Color) core.Style {
	bg := base.Background
	if bg.IsDefault() {
		bg = fallback
	}
	return base.WithBackground(bg.Blend(shade.Color, shade.Alpha))
}
