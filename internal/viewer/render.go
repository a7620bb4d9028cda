package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/cursorcolumn/internal/renderer/backend"
	"github.com/dshills/cursorcolumn/internal/renderer/core"
	"github.com/dshills/cursorcolumn/internal/renderer/overlay"
)

const (
	minGutterDigits = 3
	foldGlyph       = '▸'
	rulerGlyph      = '▐'
)

// GutterWidth returns the number of cells left of the text: line number
// digits, a fold marker column and a separator.
func (v *View) GutterWidth() int {
	digits := max(len(strconv.Itoa(v.doc.LineCount())), minGutterDigits)
	return digits + 2
}

// Render draws the view onto b and flushes it.
func (v *View) Render(b backend.Backend) {
	pal := PaletteFor(v.kind, v.colorOverrides())
	base := core.Style{Foreground: pal.Foreground, Background: pal.Background}

	width, height := b.Size()
	b.Fill(core.RectFromSize(0, 0, height, width), core.NewStyledCell(' ', base))

	gutter := v.GutterWidth()
	textWidth := max(width-gutter, 0)
	tab := v.tabWidth()

	cursorX, cursorY := -1, -1
	for row, line := range v.displayedLines() {
		if row >= height-1 {
			break
		}
		v.renderGutter(b, row, line, gutter, pal)

		text, _ := v.doc.Line(line)
		cells := layoutLine(text, tab, base, textWidth)
		for _, shade := range v.overlays.ShadesForLine(line) {
			if shade.Col < 0 || shade.Col >= textWidth {
				continue
			}
			for shade.Col >= len(cells) {
				cells = append(cells, core.NewStyledCell(' ', base))
			}
			cells[shade.Col].Style = overlay.ApplyShade(cells[shade.Col].Style, shade, pal.Background)
		}
		for x, c := range cells {
			b.SetCell(gutter+x, row, c)
		}

		if line == v.cursor.Line {
			cursorX, cursorY = gutter+cursorColumn(text, v.cursor.Character, tab), row
		}
	}

	v.renderRuler(b, width, height-1, pal)
	v.renderStatus(b, width, height, pal)

	if cursorY >= 0 && cursorX < width {
		b.ShowCursor(cursorX, cursorY)
	} else {
		b.HideCursor()
	}
	b.Show()
}

func (v *View) renderGutter(b backend.Backend, row, line, gutter int, pal Palette) {
	style := core.Style{Foreground: pal.Gutter, Background: pal.Background}
	if line == v.cursor.Line {
		style = style.WithForeground(pal.GutterCur)
	}
	num := fmt.Sprintf("%*d", gutter-2, line+1)
	for i, r := range num {
		b.SetCell(i, row, core.NewStyledCell(r, style))
	}
	if v.IsFoldStart(line) {
		b.SetCell(gutter-2, row, core.NewStyledCell(foldGlyph, core.Style{Foreground: pal.Fold, Background: pal.Background}))
	}
}

// renderRuler ticks the rightmost column at each marker's anchor line,
// scaled from the whole document onto the text rows.
func (v *View) renderRuler(b backend.Backend, width, rows int, pal Palette) {
	if width <= v.GutterWidth() || rows < 1 {
		return
	}
	lines := max(v.doc.LineCount(), 1)
	for _, o := range v.overlays.Visible() {
		m, ok := o.(*overlay.ColumnMarker)
		if !ok {
			continue
		}
		line, ok := m.RulerLine()
		if !ok {
			continue
		}
		row := clamp(line*rows/lines, 0, rows-1)
		b.SetCell(width-1, row, core.NewStyledCell(rulerGlyph, core.Style{Foreground: m.Options().Color, Background: pal.Background}))
	}
}

func (v *View) renderStatus(b backend.Backend, width, height int, pal Palette) {
	if height < 1 {
		return
	}
	style := core.Style{Foreground: pal.StatusFG, Background: pal.StatusBG}
	row := height - 1
	b.Fill(core.RectFromSize(row, 0, 1, width), core.NewStyledCell(' ', style))

	left := fmt.Sprintf(" %s  %d:%d  %s", v.doc.Name(), v.cursor.Line+1, v.cursor.Character+1, v.kind)
	right := ""
	if v.status != nil {
		right = v.status()
	}
	if right != "" {
		right += " "
	}

	rightWidth := uniseg.StringWidth(right)
	left = truncate(left, max(width-rightWidth-1, 0))
	drawText(b, 0, row, left, style)
	if rightWidth < width {
		drawText(b, width-rightWidth, row, right, style)
	}
}

// layoutLine converts text into at most limit cells, expanding each tab to
// tabWidth blanks. Wide runes take a second, empty cell.
func layoutLine(text string, tabWidth int, style core.Style, limit int) []core.Cell {
	cells := make([]core.Cell, 0, min(len(text), max(limit, 0)))
	for _, r := range text {
		if len(cells) >= limit {
			break
		}
		switch {
		case r == '\t':
			for n := min(tabWidth, limit-len(cells)); n > 0; n-- {
				cells = append(cells, core.NewStyledCell(' ', style))
			}
		case core.RuneWidth(r) == 0:
			// Combining marks and control characters are dropped.
		default:
			c := core.NewStyledCell(r, style)
			cells = append(cells, c)
			if c.Width == 2 && len(cells) < limit {
				cells = append(cells, core.Cell{Style: style})
			}
		}
	}
	return cells
}

// cursorColumn returns the cell column of character on text, matching
// layoutLine.
func cursorColumn(text string, character, tabWidth int) int {
	col := 0
	for i, r := range []rune(text) {
		if i >= character {
			break
		}
		switch {
		case r == '\t':
			col += tabWidth
		default:
			col += core.RuneWidth(r)
		}
	}
	return col
}

func drawText(b backend.Backend, x, y int, s string, style core.Style) {
	for _, r := range s {
		c := core.NewStyledCell(r, style)
		b.SetCell(x, y, c)
		if c.Width == 2 {
			b.SetCell(x+1, y, core.Cell{Style: style})
		}
		x += max(c.Width, 1)
	}
}

// truncate shortens s to fit width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	sb.WriteRune('…')
	return sb.String()
}

func (v *View) colorOverrides() map[string]string {
	if v.settings == nil {
		return nil
	}
	return v.settings.StringMap(KeyColors)
}
