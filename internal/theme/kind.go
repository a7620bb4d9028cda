// Package theme resolves the column marker color for the active theme.
//
// A theme may define its own marker color under the "cursorColumn" key.
// The color is read by running a short detector script inside a throwaway
// Lua state; if that does not answer in time the kind's default is used.
package theme

import "strings"

// Kind classifies the active color theme.
type Kind uint8

const (
	Light Kind = iota + 1
	Dark
	HighContrast
	HighContrastLight
)

// String returns the kind name as used in configuration.
func (k Kind) String() string {
	switch k {
	case Light:
		return "light"
	case Dark:
		return "dark"
	case HighContrast:
		return "high-contrast"
	case HighContrastLight:
		return "high-contrast-light"
	default:
		return "unknown"
	}
}

// IsDark reports whether marker colors should be light-on-dark.
func (k Kind) IsDark() bool {
	return k == Dark || k == HighContrast
}

// Next cycles through the kinds in declaration order.
func (k Kind) Next() Kind {
	if k >= HighContrastLight || k < Light {
		return Light
	}
	return k + 1
}

// ParseKind parses a configuration value. Unknown values yield Dark.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light
	case "high-contrast", "highcontrast", "hc", "hc-dark":
		return HighContrast
	case "high-contrast-light", "highcontrastlight", "hc-light":
		return HighContrastLight
	default:
		return Dark
	}
}

// Default marker colors.
const (
	DefaultDarkColor  = "rgba(255, 255, 255, 0.04)"
	DefaultLightColor = "rgba(0, 0, 0, 0.04)"
)

// DefaultColor returns the fallback marker color for kind.
func DefaultColor(kind Kind) string {
	if kind.IsDark() {
		return DefaultDarkColor
	}
	return DefaultLightColor
}
