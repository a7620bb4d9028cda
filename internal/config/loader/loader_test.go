package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"settings.toml", FormatTOML, true},
		{"a/b/settings.YAML", FormatYAML, true},
		{"settings.yml", FormatYAML, true},
		{"settings.json", FormatJSON, true},
		{"settings.ini", "", false},
		{"settings", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTOMLDecode(t *testing.T) {
	data := []byte(`
"cursor-column.disabled" = true

[editor]
tabSize = 4
letterSpacing = 0.5
`)
	got, err := TOMLCodec{}.Decode("s.toml", data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"cursor-column": map[string]any{"disabled": true},
		"editor":        map[string]any{"tabSize": 4.0, "letterSpacing": 0.5},
	}, got)
}

func TestTOMLDecodeError(t *testing.T) {
	_, err := TOMLCodec{}.Decode("bad.toml", []byte("a = \n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.toml", perr.Path)
	assert.Greater(t, perr.Line, 0)
	assert.Contains(t, perr.Error(), "bad.toml")
}

func TestYAMLDecode(t *testing.T) {
	data := []byte("editor:\n  tabSize: 2\ntheme:\n  kind: light\n  colors:\n    cursorColumn: '#ff0000'\n")
	got, err := YAMLCodec{}.Decode("s.yaml", data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"editor": map[string]any{"tabSize": 2.0},
		"theme": map[string]any{
			"kind":   "light",
			"colors": map[string]any{"cursorColumn": "#ff0000"},
		},
	}, got)
}

func TestYAMLDecodeError(t *testing.T) {
	_, err := YAMLCodec{}.Decode("bad.yaml", []byte("editor: [1, 2\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestJSONDecodeMixedKeys(t *testing.T) {
	data := []byte(`{
  "cursor-column.disabled": true,
  "editor": {"tabSize": 8, "letterSpacing": 1},
  "theme.colors.cursorColumn": "#010203",
  "files.exclude": ["a", "b"],
  "nothing": null
}`)
	got, err := JSONCodec{}.Decode("s.json", data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"cursor-column": map[string]any{"disabled": true},
		"editor":        map[string]any{"tabSize": 8.0, "letterSpacing": 1.0},
		"theme":         map[string]any{"colors": map[string]any{"cursorColumn": "#010203"}},
		"files":         map[string]any{"exclude": []any{"a", "b"}},
		"nothing":       nil,
	}, got)
}

func TestJSONDecodeErrors(t *testing.T) {
	_, err := JSONCodec{}.Decode("s.json", []byte(`{"a": `))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	_, err = JSONCodec{}.Decode("s.json", []byte(`[1, 2]`))
	require.ErrorAs(t, err, &perr)

	got, err := JSONCodec{}.Decode("s.json", []byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONEncodeFlatKeys(t *testing.T) {
	out, err := JSONCodec{}.Encode(map[string]any{
		"editor":        map[string]any{"tabSize": 4.0},
		"cursor-column": map[string]any{"disabled": true},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"cursor-column.disabled": true`)
	assert.Contains(t, s, `"editor.tabSize": 4`)
	assert.Less(t, indexOf(s, "cursor-column"), indexOf(s, "editor"), "keys are sorted")

	back, err := JSONCodec{}.Decode("s.json", out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"editor":        map[string]any{"tabSize": 4.0},
		"cursor-column": map[string]any{"disabled": true},
	}, back)
}

func TestParseErrorFormatting(t *testing.T) {
	assert.Equal(t, "parse error in a: boom", (&ParseError{Path: "a", Message: "boom"}).Error())
	assert.Equal(t, "parse error in a at line 3: boom", (&ParseError{Path: "a", Line: 3, Message: "boom"}).Error())
	assert.Equal(t, "parse error in a at line 3, column 2: boom", (&ParseError{Path: "a", Line: 3, Column: 2, Message: "boom"}).Error())
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
