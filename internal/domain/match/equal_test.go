package match_test

import (
	"encoding/json"
	"testing"

	"github.com/sophialabs/vhttp/internal/domain/match"
)

func TestEqualBody(t *testing.T) {
	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs empty map", nil, map[string]any{}, false},
		{"struct vs map", item{ID: 1, Name: "a"}, map[string]any{"id": float64(1), "name": "a"}, true},
		{"typed map vs any map", map[string]string{"a": "b"}, map[string]any{"a": "b"}, true},
		{"int vs float", map[string]any{"n": 3}, map[string]any{"n": 3.0}, true},
		{"raw json vs map", json.RawMessage(`{"a":[1,2]}`), map[string]any{"a": []any{1.0, 2.0}}, true},
		{"bytes vs string", []byte("<a/>"), "<a/>", true},
		{"different", map[string]any{"a": "b"}, map[string]any{"a": "c"}, false},
		{"slice order matters", []int{1, 2}, []int{2, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := match.EqualBody(tt.actual, tt.expected); got != tt.want {
				t.Errorf("EqualBody() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_KeepsStrings(t *testing.T) {
	if got := match.Normalize("plain"); got != "plain" {
		t.Errorf("expected string to be kept, got %v", got)
	}
	if got := match.Normalize(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestPretty(t *testing.T) {
	got := match.Pretty(map[string]any{"a": 1})
	if got != "{\n    \"a\": 1\n}" {
		t.Errorf("unexpected pretty output: %q", got)
	}
}
