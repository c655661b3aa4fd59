package match

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Normalize maps a body value onto the shapes produced by JSON decoding
// (map[string]any, []any, float64, string, bool, nil), so that structs,
// typed maps and decoded documents with the same content compare equal.
// Strings are kept as-is; values that cannot be marshaled are returned unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		return string(t)
	case json.RawMessage:
		var out any
		if err := json.Unmarshal(t, &out); err != nil {
			return string(t)
		}
		return out
	}

	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// EqualBody reports whether two bodies are structurally equal.
func EqualBody(actual, expected any) bool {
	return cmp.Equal(Normalize(actual), Normalize(expected))
}

// EqualQuery reports whether two query maps are equal. A nil map equals an empty one.
func EqualQuery(actual, expected url.Values) bool {
	return cmp.Equal(actual, expected, cmpopts.EquateEmpty())
}

// DiffBody returns a human-readable diff (-expected +actual).
func DiffBody(expected, actual any) string {
	return cmp.Diff(Normalize(expected), Normalize(actual))
}

// DiffQuery returns a human-readable diff (-expected +actual).
func DiffQuery(expected, actual url.Values) string {
	return cmp.Diff(expected, actual, cmpopts.EquateEmpty())
}

// Pretty renders v as 4-space indented JSON for diagnostics.
func Pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func asValues(v any) url.Values {
	q, _ := v.(url.Values)
	return q
}
