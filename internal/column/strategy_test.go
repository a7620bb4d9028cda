package column

import (
	"testing"

	"github.com/dshills/cursorcolumn/internal/host"
)

func TestSelectStrategy(t *testing.T) {
	viewport := []host.LineRange{{Start: 5, End: 20}}

	tests := []struct {
		name       string
		pos        host.Position
		wantKind   Kind
		wantAnchor host.Position
		wantSpan   int
	}{
		{"cursor visible", host.Position{Line: 10, Character: 4}, CursorBound, host.Position{Line: 10, Character: 4}, 48},
		{"cursor below viewport", host.Position{Line: 30, Character: 4}, LineBound, host.Position{Line: 5}, 32},
		{"cursor above viewport", host.Position{Line: 1, Character: 4}, LineBound, host.Position{Line: 5}, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SelectStrategy(tt.pos, viewport, "\tfoo", 4, 0)
			if s.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", s.Kind, tt.wantKind)
			}
			if s.Anchor != tt.wantAnchor {
				t.Errorf("Anchor = %+v, want %+v", s.Anchor, tt.wantAnchor)
			}
			if want := (Offset{Columns: 7}); s.Offset != want {
				t.Errorf("Offset = %+v, want %+v", s.Offset, want)
			}
			if s.Span != tt.wantSpan {
				t.Errorf("Span = %d, want %d", s.Span, tt.wantSpan)
			}
		})
	}
}

func TestStrategyEqual(t *testing.T) {
	ranges := []host.LineRange{{Start: 5, End: 20}}
	a := SelectStrategy(host.Position{Line: 10, Character: 2}, ranges, "abc", 4, 0)

	scrolled := []host.LineRange{{Start: 6, End: 21}}
	b := SelectStrategy(host.Position{Line: 10, Character: 2}, scrolled, "abc", 4, 0)
	if !a.Equal(b) {
		t.Error("small scroll should keep a cursor-bound strip")
	}

	c := SelectStrategy(host.Position{Line: 10, Character: 3}, ranges, "abc", 4, 0)
	if a.Equal(c) {
		t.Error("cursor move should change the strategy")
	}
}

func TestStrategyOptions(t *testing.T) {
	cursor := Strategy{Kind: CursorBound, Anchor: host.Position{Line: 3, Character: 2}, Offset: Offset{Columns: 2}, Span: 30}
	opts := cursor.Options("#ff0000", 10)
	if opts.Anchor != host.AnchorCursor {
		t.Errorf("Anchor = %v, want %v", opts.Anchor, host.AnchorCursor)
	}
	if want := (host.Range{Start: host.Position{Line: 3, Character: 2}, End: host.Position{Line: 3, Character: 2}}); opts.Range != want {
		t.Errorf("Range = %+v, want insertion point %+v", opts.Range, want)
	}
	if opts.Color != "#ff0000" {
		t.Errorf("Color = %q, want %q", opts.Color, "#ff0000")
	}
	if !opts.Gradient {
		t.Error("Gradient = false, want true")
	}
	if !opts.OverviewRuler {
		t.Error("OverviewRuler = false, want true")
	}

	line := Strategy{Kind: LineBound, Anchor: host.Position{Line: 5}, Offset: Offset{Columns: 7, Pixels: 2}, Span: 20}
	opts = line.Options("#ff0000", 12)
	want := host.DecorationOptions{
		Anchor:        host.AnchorLine,
		Range:         host.Range{Start: host.Position{Line: 5}, End: host.Position{Line: 5, Character: 12}},
		Columns:       7,
		PixelOffset:   2,
		Span:          20,
		Color:         "#ff0000",
		Gradient:      true,
		OverviewRuler: true,
	}
	if opts != want {
		t.Errorf("Options() = %+v, want %+v", opts, want)
	}
}
