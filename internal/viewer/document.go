// Package viewer is a read-only terminal text viewer that hosts the cursor
// column marker.
//
// View implements host.Host and host.Editor. Every mutation publishes the
// matching host event synchronously to subscribers. A View is owned by one
// goroutine, the application's event loop.
package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is an immutable list of lines.
type Document struct {
	name  string
	lines []string
}

// NewDocument splits text into lines. CRLF endings are accepted and a
// trailing newline does not add an empty last line.
func NewDocument(name, text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return &Document{name: name, lines: strings.Split(text, "\n")}
}

// LoadDocument reads a file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return NewDocument(filepath.Base(path), string(data)), nil
}

// Name returns the display name.
func (d *Document) Name() string {
	return d.name
}

// LineCount returns the number of lines. It is at least 1.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the text of a line.
func (d *Document) Line(i int) (string, bool) {
	if i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i], true
}

// RuneCount returns the number of characters on a line.
func (d *Document) RuneCount(i int) int {
	s, ok := d.Line(i)
	if !ok {
		return 0
	}
	return len([]rune(s))
}

// IsBlank reports whether a line has only whitespace.
func (d *Document) IsBlank(i int) bool {
	s, _ := d.Line(i)
	return strings.TrimSpace(s) == ""
}
