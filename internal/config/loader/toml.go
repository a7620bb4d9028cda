package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLCodec reads and writes TOML settings.
type TOMLCodec struct{}

// Decode parses TOML data.
func (TOMLCodec) Decode(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			perr.Line, perr.Column = decErr.Position()
		}
		return nil, perr
	}
	return normalize(out), nil
}

// Encode renders data as TOML.
func (TOMLCodec) Encode(data map[string]any) ([]byte, error) {
	return toml.Marshal(data)
}
