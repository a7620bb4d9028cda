// Package loader reads and writes settings files.
//
// Settings are exchanged as nested maps keyed by section, so
// {"editor": {"tabSize": 4}} holds the setting "editor.tabSize". The file
// format is chosen from the extension.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported settings format")

// Format identifies a settings file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Codec decodes and encodes one settings format.
type Codec interface {
	// Decode parses data into a nested settings map. source names the data
	// in parse errors.
	Decode(source string, data []byte) (map[string]any, error)

	// Encode renders a nested settings map.
	Encode(data map[string]any) ([]byte, error)
}

// FileSystem is the subset of file operations the loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path.
func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// CodecFor returns the codec for a format.
func CodecFor(f Format) (Codec, error) {
	switch f {
	case FormatTOML:
		return TOMLCodec{}, nil
	case FormatYAML:
		return YAMLCodec{}, nil
	case FormatJSON:
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// FileLoader reads and writes one settings file.
type FileLoader struct {
	fs    FileSystem
	path  string
	codec Codec
}

// NewFileLoader creates a loader for path, picking the codec from the
// extension.
func NewFileLoader(path string) (*FileLoader, error) {
	return NewFileLoaderWithFS(OSFS{}, path)
}

// NewFileLoaderWithFS creates a loader backed by a custom file system.
func NewFileLoaderWithFS(fsys FileSystem, path string) (*FileLoader, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	codec, err := CodecFor(f)
	if err != nil {
		return nil, err
	}
	return &FileLoader{fs: fsys, path: path, codec: codec}, nil
}

// Path returns the settings file path.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads the settings file. A missing file yields nil, nil.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", l.path, err)
	}
	return l.codec.Decode(l.path, data)
}

// Save writes data to the settings file.
func (l *FileLoader) Save(data map[string]any) error {
	out, err := l.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding settings for %s: %w", l.path, err)
	}
	if err := l.fs.WriteFile(l.path, out, 0o644); err != nil {
		return fmt.Errorf("writing settings file %s: %w", l.path, err)
	}
	return nil
}

// ParseError reports a malformed settings file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
