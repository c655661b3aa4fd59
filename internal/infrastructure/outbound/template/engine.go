// Package template provides the substitution engines used for template
// fixtures and the loader for data-provider files.
package template

import (
	"encoding/json"
)

// Engine substitutes placeholders against a data value.
type Engine interface {
	// Text renders source against data and returns text.
	Text(source string, data any) (string, error)
	// Value renders a string leaf of a structure. Engines may return a
	// typed value instead of text.
	Value(source string, data any) (any, error)
}

// dataEnv builds the variable set templates see: the top-level keys of data,
// data itself under "data", then the helper functions. Data keys never
// shadow helpers.
func dataEnv(data any, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+8)
	if m, ok := asMap(data); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	env["data"] = data
	for k, v := range helpers {
		env[k] = v
	}
	return env
}

func asMap(data any) (map[string]any, bool) {
	switch t := data.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}
	return m, true
}
