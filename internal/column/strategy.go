package column

import "github.com/dshills/cursorcolumn/internal/host"

// Kind is the anchoring strategy of a marker.
type Kind uint8

const (
	// CursorBound anchors the marker at the cursor with a tall strip that
	// tolerates small scrolls.
	CursorBound Kind = iota + 1

	// LineBound parks the marker on the first visible line at the cursor's
	// visual column while the cursor is scrolled out of view.
	LineBound
)

// String returns the strategy name.
func (k Kind) String() string {
	switch k {
	case CursorBound:
		return "cursor-bound"
	case LineBound:
		return "line-bound"
	default:
		return "unknown"
	}
}

// Strip heights as multiples of the viewport height.
const (
	cursorSpanFactor = 3
	lineSpanFactor   = 2
)

// Strategy is a fully resolved marker placement.
type Strategy struct {
	Kind   Kind
	Anchor host.Position
	Offset Offset
	Span   int
}

// SelectStrategy picks the marker placement for pos. The offset is always
// computed on the cursor's own line, so a parked marker keeps the cursor's
// column.
func SelectStrategy(pos host.Position, ranges []host.LineRange, lineText string, tabWidth int, letterSpacing float64) Strategy {
	offset := ComputeVisualOffset(lineText, pos.Character, tabWidth, letterSpacing)
	height := viewportHeight(ranges)

	if IsVisible(pos, ranges) {
		return Strategy{
			Kind:   CursorBound,
			Anchor: pos,
			Offset: offset,
			Span:   cursorSpanFactor * height,
		}
	}

	anchor := host.Position{}
	if len(ranges) > 0 {
		anchor.Line = ranges[0].Start
	}
	return Strategy{
		Kind:   LineBound,
		Anchor: anchor,
		Offset: offset,
		Span:   lineSpanFactor * height,
	}
}

// Equal reports whether two strategies draw the same marker.
func (s Strategy) Equal(other Strategy) bool {
	return s == other
}

// Options builds the host decoration for s. anchorLineLen is the length of
// the anchor line, used for the full-line range of line-bound markers.
func (s Strategy) Options(color string, anchorLineLen int) host.DecorationOptions {
	opts := host.DecorationOptions{
		Columns:       s.Offset.Columns,
		PixelOffset:   s.Offset.Pixels,
		Span:          s.Span,
		Color:         color,
		Gradient:      true,
		OverviewRuler: true,
	}
	switch s.Kind {
	case LineBound:
		opts.Anchor = host.AnchorLine
		opts.Range = host.Range{
			Start: host.Position{Line: s.Anchor.Line},
			End:   host.Position{Line: s.Anchor.Line, Character: anchorLineLen},
		}
	default:
		opts.Anchor = host.AnchorCursor
		opts.Range = host.Range{Start: s.Anchor, End: s.Anchor}
	}
	return opts
}
