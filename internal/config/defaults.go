package config

// Setting keys.
const (
	KeyDisabled       = "cursor-column.disabled"
	KeyThrottleMs     = "cursor-column.throttleMs"
	KeyProbeTimeoutMs = "cursor-column.probeTimeoutMs"
	KeyLetterSpacing  = "editor.letterSpacing"
	KeyTabSize        = "editor.tabSize"
	KeyCellWidth      = "editor.cellWidth"
	KeyThemeKind      = "theme.kind"
	KeyThemeScript    = "theme.script"
	KeyThemeColors    = "theme.colors"
)

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"cursor-column": map[string]any{
			"disabled":       false,
			"throttleMs":     16.0,
			"probeTimeoutMs": 500.0,
		},
		"editor": map[string]any{
			"letterSpacing": 0.0,
			"tabSize":       4.0,
			"cellWidth":     8.0,
		},
		"theme": map[string]any{
			"kind":   "dark",
			"script": "",
			"colors": map[string]any{},
		},
	}
}
