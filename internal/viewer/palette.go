package viewer

import (
	"github.com/dshills/cursorcolumn/internal/renderer/core"
	"github.com/dshills/cursorcolumn/internal/theme"
)

// Palette holds the colors of a theme kind.
type Palette struct {
	Background core.Color
	Foreground core.Color
	Gutter     core.Color
	GutterCur  core.Color
	StatusBG   core.Color
	StatusFG   core.Color
	Fold       core.Color
}

// Palette color names that theme.colors may override.
const (
	colorBackground = "background"
	colorForeground = "foreground"
)

func mustHex(s string) core.Color {
	c, err := core.ColorFromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var palettes = map[theme.Kind]Palette{
	theme.Dark: {
		Background: mustHex("#1e1e1e"),
		Foreground: mustHex("#d4d4d4"),
		Gutter:     mustHex("#858585"),
		GutterCur:  mustHex("#c6c6c6"),
		StatusBG:   mustHex("#007acc"),
		StatusFG:   mustHex("#ffffff"),
		Fold:       mustHex("#569cd6"),
	},
	theme.Light: {
		Background: mustHex("#ffffff"),
		Foreground: mustHex("#333333"),
		Gutter:     mustHex("#999999"),
		GutterCur:  mustHex("#0b216f"),
		StatusBG:   mustHex("#2c2c2c"),
		StatusFG:   mustHex("#ffffff"),
		Fold:       mustHex("#0000ff"),
	},
	theme.HighContrast: {
		Background: mustHex("#000000"),
		Foreground: mustHex("#ffffff"),
		Gutter:     mustHex("#ffffff"),
		GutterCur:  mustHex("#f38518"),
		StatusBG:   mustHex("#000000"),
		StatusFG:   mustHex("#ffffff"),
		Fold:       mustHex("#f38518"),
	},
	theme.HighContrastLight: {
		Background: mustHex("#ffffff"),
		Foreground: mustHex("#000000"),
		Gutter:     mustHex("#292929"),
		GutterCur:  mustHex("#0f4a85"),
		StatusBG:   mustHex("#ffffff"),
		StatusFG:   mustHex("#000000"),
		Fold:       mustHex("#0f4a85"),
	},
}

// PaletteFor returns the palette for kind with overrides applied.
// Unparsable overrides are ignored.
func PaletteFor(kind theme.Kind, overrides map[string]string) Palette {
	p, ok := palettes[kind]
	if !ok {
		p = palettes[theme.Dark]
	}
	if c, _, err := theme.ParseColor(overrides[colorBackground]); err == nil {
		p.Background = c
	}
	if c, _, err := theme.ParseColor(overrides[colorForeground]); err == nil {
		p.Foreground = c
	}
	return p
}
