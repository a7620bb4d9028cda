package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes YAML settings.
type YAMLCodec struct{}

// Decode parses YAML data.
func (YAMLCodec) Decode(source string, data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		if te, ok := err.(*yaml.TypeError); ok && len(te.Errors) > 0 {
			perr.Message = te.Errors[0]
		}
		return nil, perr
	}
	return normalize(out), nil
}

// Encode renders data as YAML.
func (YAMLCodec) Encode(data map[string]any) ([]byte, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}
