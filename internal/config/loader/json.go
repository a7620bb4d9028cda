package loader

import (
	"errors"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var errInvalidJSON = errors.New("invalid JSON")

// JSONCodec reads and writes editor-style JSON settings. Keys may be flat
// dotted names ("editor.tabSize": 4), nested objects, or a mix of both.
// Saved files always use flat dotted keys.
type JSONCodec struct{}

// Decode parses JSON data.
func (JSONCodec) Decode(source string, data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: errInvalidJSON.Error(), Err: errInvalidJSON}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: "top level must be an object", Err: errInvalidJSON}
	}

	out := make(map[string]any)
	decodeObject(root, "", out)
	return out, nil
}

func decodeObject(obj gjson.Result, prefix string, out map[string]any) {
	obj.ForEach(func(key, value gjson.Result) bool {
		path := key.String()
		if prefix != "" {
			path = prefix + "." + path
		}
		if value.IsObject() {
			decodeObject(value, path, out)
			return true
		}
		setByPath(out, path, jsonValue(value))
		return true
	})
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	case gjson.Null:
		return nil
	default:
		if v.IsArray() {
			items := v.Array()
			list := make([]any, len(items))
			for i, item := range items {
				list[i] = jsonValue(item)
			}
			return list
		}
		return v.Value()
	}
}

// Encode renders data as pretty-printed JSON with flat dotted keys.
func (JSONCodec) Encode(data map[string]any) ([]byte, error) {
	flat := flatten(data)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte("{}")
	for _, k := range keys {
		var err error
		out, err = sjson.SetBytes(out, escapeKey(k), flat[k])
		if err != nil {
			return nil, err
		}
	}
	return pretty.Pretty(out), nil
}

// escapeKey makes a dotted setting name a single sjson path element.
func escapeKey(k string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "#", `\#`, "@", `\@`, "|", `\|`)
	return r.Replace(k)
}
