package overlay

import (
	"math"

	"github.com/dshills/cursorcolumn/internal/renderer/core"
)

// MarkerOptions positions a column marker.
type MarkerOptions struct {
	// Line is the document line the strip is centered on.
	Line int

	// Column is the visual column in cells. Fractions round to the
	// nearest cell.
	Column float64

	// Span is the strip height in document lines.
	Span int

	Color core.Color
	Alpha float64

	// Gradient fades the strip to transparent at both ends.
	Gradient bool

	// Ruler adds a tick for Line to the overview ruler.
	Ruler bool
}

// ColumnMarker is a vertical strip of translucent cells.
type ColumnMarker struct {
	*BaseOverlay
	opts MarkerOptions
}

// NewColumnMarker creates a marker.
func NewColumnMarker(id string, opts MarkerOptions) *ColumnMarker {
	if opts.Span < 1 {
		opts.Span = 1
	}
	return &ColumnMarker{
		BaseOverlay: NewBaseOverlay(id, TypeColumnMarker, PriorityNormal),
		opts:        opts,
	}
}

// Options returns the marker placement.
func (m *ColumnMarker) Options() MarkerOptions {
	return m.opts
}

// Col returns the marker's cell column.
func (m *ColumnMarker) Col() int {
	return int(math.Round(m.opts.Column))
}

// Top returns the first document line covered by the strip.
func (m *ColumnMarker) Top() int {
	return m.opts.Line - m.opts.Span/2
}

// Bottom returns the last document line covered by the strip.
func (m *ColumnMarker) Bottom() int {
	return m.Top() + m.opts.Span - 1
}

// RulerLine returns the line to tick in the overview ruler, if any.
func (m *ColumnMarker) RulerLine() (int, bool) {
	return m.opts.Line, m.opts.Ruler
}

// ShadesForLine returns the marker tint for line.
func (m *ColumnMarker) ShadesForLine(line int) []Shade {
	if line < m.Top() || line > m.Bottom() {
		return nil
	}
	alpha := m.opts.Alpha * m.intensity(line)
	if alpha <= 0 {
		return nil
	}
	return []Shade{{Col: m.Col(), Color: m.opts.Color, Alpha: alpha}}
}

// intensity is 1 at the anchor line and falls off linearly to 0 at both
// ends of the strip when the gradient is on.
func (m *ColumnMarker) intensity(line int) float64 {
	if !m.opts.Gradient {
		return 1
	}
	half := float64(m.opts.Span) / 2
	if half <= 0.5 {
		return 1
	}
	d := math.Abs(float64(line - m.opts.Line))
	v := 1 - d/half
	if v < 0 {
		return 0
	}
	return v
}
