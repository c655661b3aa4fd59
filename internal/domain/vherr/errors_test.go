package vherr_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sophialabs/vhttp/internal/domain/vherr"
)

func TestError_IsMatchesByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"unknown scenario", vherr.UnknownScenario("s1", "GET", "http://x"), vherr.ErrUnknownScenario, true},
		{"no matching call", vherr.NoMatchingCall("s1", "GET", "http://x"), vherr.ErrNoMatchingCall, true},
		{"wrapped", fmt.Errorf("send: %w", vherr.NoMatchingCall("s1", "GET", "http://x")), vherr.ErrNoMatchingCall, true},
		{"different kind", vherr.FixtureLoad("a.js", errors.New("boom")), vherr.ErrFixtureParse, false},
		{"status is transport", vherr.Status("GET", "http://x", 400, nil), vherr.ErrTransport, true},
		{"plain error", errors.New("x"), vherr.ErrTransport, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_MessagesNameRequest(t *testing.T) {
	err := vherr.NoMatchingCall("scenario1", "GET", "http://test.url/path")
	if err.Error() != "No virtual scenario1 call found for GET:http://test.url/path" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err = vherr.UnknownScenario("nope", "POST", "http://test.url/path")
	if err.Error() != "No virtual nope scenario found for POST:http://test.url/path" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestIncompleteScenario_ListsKeys(t *testing.T) {
	err := vherr.IncompleteScenario("s1", []string{"a:1", "b"})
	if !strings.HasSuffix(err.Error(), "were not made: a:1, b") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if len(err.Keys) != 2 {
		t.Errorf("expected 2 keys, got %d", len(err.Keys))
	}
}

func TestError_UnwrapAndTimeout(t *testing.T) {
	err := vherr.Timeout("GET", "http://x", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected wrapped deadline error")
	}
	if !vherr.IsTimeout(err) {
		t.Error("expected IsTimeout")
	}
	if vherr.IsTimeout(vherr.Transport("GET", "http://x", errors.New("refused"))) {
		t.Error("plain transport error is not a timeout")
	}
	if vherr.KindOf(err) != vherr.KindTransport {
		t.Errorf("unexpected kind %q", vherr.KindOf(err))
	}
	if vherr.KindOf(errors.New("x")) != "" {
		t.Error("expected empty kind for foreign error")
	}
}
