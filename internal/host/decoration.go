package host

import (
	"fmt"
	"strconv"
	"strings"
)

// AnchorKind selects how a marker is anchored.
type AnchorKind uint8

const (
	// AnchorCursor pins the marker to the cursor position.
	AnchorCursor AnchorKind = iota + 1

	// AnchorLine pins the marker to a whole line at a fixed column.
	AnchorLine
)

// String returns the anchor kind name.
func (k AnchorKind) String() string {
	switch k {
	case AnchorCursor:
		return "cursor-bound"
	case AnchorLine:
		return "line-bound"
	default:
		return "unknown"
	}
}

// Range is a document range. For AnchorCursor it is an insertion point;
// for AnchorLine it covers the whole anchor line.
type Range struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the range is an insertion point.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// DecorationOptions describes a column marker.
type DecorationOptions struct {
	// Anchor selects how Range is interpreted.
	Anchor AnchorKind

	// Range is the anchor range in document coordinates.
	Range Range

	// Columns is the visual column of the marker measured from the start
	// of the anchor line.
	Columns float64

	// PixelOffset is extra horizontal shift from letter spacing.
	PixelOffset float64

	// Span is the strip height in lines, centered on the anchor line.
	Span int

	// Color is a CSS-like color string, e.g. "rgba(255, 255, 255, 0.04)".
	Color string

	// Gradient fades the strip to transparent at both ends.
	Gradient bool

	// OverviewRuler marks the anchor line in the right-hand overview
	// ruler.
	OverviewRuler bool
}

// Offset returns the CSS calc() expression for the horizontal position.
func (o DecorationOptions) Offset() string {
	return fmt.Sprintf("calc(%sch + %spx)", formatNumber(o.Columns), formatNumber(o.PixelOffset))
}

// TextDecoration renders the marker as CSS-like declarations, for hosts
// that position markers with style sheets.
func (o DecorationOptions) TextDecoration() string {
	background := o.Color
	if o.Gradient {
		background = fmt.Sprintf("linear-gradient(transparent, %s, transparent)", o.Color)
	}

	decls := []string{
		"box-sizing: content-box !important",
		"width: calc(1ch)",
		fmt.Sprintf("top: calc(-%d * 1lh / 2)", o.Span),
		fmt.Sprintf("height: calc(%d * 1lh)", o.Span),
		"position: absolute",
		"z-index: -100",
		"border: none",
		fmt.Sprintf("background: %s", background),
	}
	if o.Anchor == AnchorLine {
		decls = append(decls, fmt.Sprintf("margin-left: %s", o.Offset()))
	} else if o.PixelOffset != 0 {
		decls = append(decls, fmt.Sprintf("margin-left: calc(%spx)", formatNumber(o.PixelOffset)))
	}
	return strings.Join(decls, "; ") + ";"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
