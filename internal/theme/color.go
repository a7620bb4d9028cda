package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/cursorcolumn/internal/renderer/core"
)

// ErrInvalidColor is returned for color strings ParseColor cannot read.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor reads a CSS-like color. Supported forms are "#rgb",
// "#rrggbb", "rgb(r, g, b)" and "rgba(r, g, b, a)". The returned alpha is
// in [0, 1]; hex and rgb() colors are opaque.
func ParseColor(s string) (core.Color, float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		c, err := core.ColorFromHex(s)
		if err != nil {
			return core.Color{}, 0, fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		return c, 1, nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[len("rgb("):len(s)-1], 3)
	default:
		return core.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
}

func parseFunctional(args string, want int) (core.Color, float64, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return core.Color{}, 0, fmt.Errorf("%w: expected %d components, got %d", ErrInvalidColor, want, len(parts))
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return core.Color{}, 0, fmt.Errorf("%w: component %q", ErrInvalidColor, parts[i])
		}
		rgb[i] = uint8(v)
	}

	alpha := 1.0
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return core.Color{}, 0, fmt.Errorf("%w: alpha %q", ErrInvalidColor, parts[3])
		}
		alpha = a
	}

	return core.ColorFromRGB(rgb[0], rgb[1], rgb[2]), alpha, nil
}
