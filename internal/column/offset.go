package column

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultTabWidth is used when the editor reports no usable tab size.
const DefaultTabWidth = 2

// Offset is the horizontal position of the marker within its line.
type Offset struct {
	// Columns is the visual column, with tabs expanded to full stops.
	Columns float64

	// Pixels is the extra shift contributed by letter spacing.
	Pixels float64
}

// CSS returns the offset as a calc() term, e.g. "calc(7ch + 0px)".
func (o Offset) CSS() string {
	return fmt.Sprintf("calc(%sch + %spx)",
		strconv.FormatFloat(o.Columns, 'f', -1, 64),
		strconv.FormatFloat(o.Pixels, 'f', -1, 64))
}

// ComputeVisualOffset converts a character index on lineText into a visual
// offset. Each tab before the cursor occupies tabWidth columns; every other
// character occupies one. Wide and combining characters are not special.
func ComputeVisualOffset(lineText string, character, tabWidth int, letterSpacing float64) Offset {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	if math.IsNaN(letterSpacing) || math.IsInf(letterSpacing, 0) {
		letterSpacing = 0
	}
	if character < 0 {
		character = 0
	}

	tabs := 0
	seen := 0
	for _, r := range lineText {
		if seen == character {
			break
		}
		if r == '\t' {
			tabs++
		}
		seen++
	}

	return Offset{
		Columns: float64(character-tabs) + float64(tabs*tabWidth),
		Pixels:  float64(character) * letterSpacing,
	}
}
