package scenario_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		key      string
		wantName string
		wantSeq  string
	}{
		{"call1", "call1", ""},
		{"call1:2", "call1", "2"},
		{"a:1", "a", "1"},
		{"a:", "a", ""},
		{"a:1:2", "a", "1:2"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, seq := scenario.ParseKey(tt.key)
			if name != tt.wantName || seq != tt.wantSeq {
				t.Errorf("ParseKey(%q) = (%q, %q), want (%q, %q)", tt.key, name, seq, tt.wantName, tt.wantSeq)
			}
		})
	}
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     scenario.Definition
		wantErr string
	}{
		{
			name: "valid",
			def: scenario.Definition{
				{Key: "a:1", Spec: scenario.CallSpec{Method: "get", URI: "http://x/y"}},
				{Key: "b", Spec: scenario.CallSpec{Method: "post", URIPattern: regexp.MustCompile(`^http://x/\d+$`)}},
			},
		},
		{
			name: "duplicate key",
			def: scenario.Definition{
				{Key: "a", Spec: scenario.CallSpec{Method: "get", URI: "http://x"}},
				{Key: "a", Spec: scenario.CallSpec{Method: "get", URI: "http://x"}},
			},
			wantErr: "duplicate call key",
		},
		{
			name:    "missing method",
			def:     scenario.Definition{{Key: "a", Spec: scenario.CallSpec{URI: "http://x"}}},
			wantErr: "method is required",
		},
		{
			name:    "missing uri",
			def:     scenario.Definition{{Key: "a", Spec: scenario.CallSpec{Method: "get"}}},
			wantErr: "uri or uri pattern is required",
		},
		{
			name:    "empty key",
			def:     scenario.Definition{{Spec: scenario.CallSpec{Method: "get", URI: "http://x"}}},
			wantErr: "empty key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefinition_KeysPreserveOrder(t *testing.T) {
	def := scenario.Definition{
		{Key: "z"}, {Key: "a"}, {Key: "m:1"},
	}
	got := strings.Join(def.Keys(), ",")
	if got != "z,a,m:1" {
		t.Errorf("Keys() = %q", got)
	}
}

func TestDataSources(t *testing.T) {
	v, err := scenario.StaticData{Value: map[string]any{"name": "c"}}.Data()
	if err != nil {
		t.Fatalf("StaticData: %v", err)
	}
	if v.(map[string]any)["name"] != "c" {
		t.Errorf("unexpected static value: %v", v)
	}

	calls := 0
	f := scenario.DataFunc(func() (any, error) {
		calls++
		return calls, nil
	})
	f.Data()
	f.Data()
	if calls != 2 {
		t.Errorf("expected DataFunc to run on every call, ran %d times", calls)
	}

	boom := scenario.DataFunc(func() (any, error) { return nil, errors.New("boom") })
	if _, err := boom.Data(); err == nil {
		t.Error("expected error from DataFunc")
	}
}

func TestBodyKind(t *testing.T) {
	tests := []struct {
		kind     scenario.BodyKind
		str      string
		xml      bool
		template bool
	}{
		{scenario.BodyNone, "none", false, false},
		{scenario.BodyJSON, "json", false, false},
		{scenario.BodyXML, "xml", true, false},
		{scenario.BodyTemplateJSON, "template-json", false, true},
		{scenario.BodyTemplateXML, "template-xml", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if tt.kind.String() != tt.str {
				t.Errorf("String() = %q", tt.kind.String())
			}
			if tt.kind.IsXML() != tt.xml {
				t.Errorf("IsXML() = %v", tt.kind.IsXML())
			}
			if tt.kind.IsTemplate() != tt.template {
				t.Errorf("IsTemplate() = %v", tt.kind.IsTemplate())
			}
		})
	}
}
