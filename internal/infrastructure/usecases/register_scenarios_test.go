package usecases_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

func TestRegisterScenarios_FirstRegistrationWins(t *testing.T) {
	h := newHarness(t)

	h.mustRegister(t, "s1", scenario.Definition{
		{Key: "a", Spec: scenario.CallSpec{Method: "get", URI: "http://x/first"}},
	})
	h.mustRegister(t, "s1", scenario.Definition{
		{Key: "b", Spec: scenario.CallSpec{Method: "get", URI: "http://x/second"}},
	})

	compiled, ok := h.store.Lookup("s1")
	if !ok {
		t.Fatal("expected s1 to be registered")
	}
	if diff := cmp.Diff([]string{"a"}, compiled.Keys()); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestRegisterScenarios_JoinsErrorsAndKeepsValid(t *testing.T) {
	h := newHarness(t)

	err := h.register.Execute(h.root, []scenario.Named{
		{Name: "bad", Definition: scenario.Definition{{Key: "a", Spec: scenario.CallSpec{URI: "http://x"}}}},
		{Name: "good", Definition: scenario.Definition{{Key: "a", Spec: scenario.CallSpec{Method: "get", URI: "http://x"}}}},
		{Name: "worse", Definition: scenario.Definition{{Key: "a", Spec: scenario.CallSpec{Method: "get"}}}},
	})
	if err == nil {
		t.Fatal("expected an error")
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("expected two joined errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"good"}, h.store.Keys()); diff != "" {
		t.Errorf("unexpected registered scenarios (-want +got):\n%s", diff)
	}
}
