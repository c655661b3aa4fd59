// Package vherr defines the error kinds surfaced by scenario compilation,
// activation, matching and sending.
package vherr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an Error.
type Kind string

const (
	// KindUnknownScenario indicates a virtual client names a scenario that was never registered.
	KindUnknownScenario Kind = "UNKNOWN_SCENARIO"

	// KindNoMatchingCall indicates no unconsumed call satisfies method, URI, query and body.
	KindNoMatchingCall Kind = "NO_MATCHING_CALL"

	// KindFixtureLoad indicates a fixture or data-provider file could not be
	// read, or a data provider failed.
	KindFixtureLoad Kind = "FIXTURE_LOAD"

	// KindFixtureParse indicates a static or template fixture is not valid JSON/XML.
	KindFixtureParse Kind = "FIXTURE_PARSE"

	// KindIncompleteScenario indicates registered calls were never matched.
	KindIncompleteScenario Kind = "INCOMPLETE_SCENARIO"

	// KindTransport indicates a failure of the send itself: network errors,
	// timeouts and non-2xx statuses on both the real and virtual paths.
	KindTransport Kind = "TRANSPORT"
)

// Sentinels for errors.Is. They match any Error of the same kind.
var (
	ErrUnknownScenario    = &Error{Kind: KindUnknownScenario}
	ErrNoMatchingCall     = &Error{Kind: KindNoMatchingCall}
	ErrFixtureLoad        = &Error{Kind: KindFixtureLoad}
	ErrFixtureParse       = &Error{Kind: KindFixtureParse}
	ErrIncompleteScenario = &Error{Kind: KindIncompleteScenario}
	ErrTransport          = &Error{Kind: KindTransport}
)

// Error carries the kind plus whatever request or fixture context applies.
type Error struct {
	Kind    Kind
	Message string

	Scenario string
	Method   string
	URI      string

	// Path is the fixture file involved, for fixture errors.
	Path string

	// Keys lists the unmatched call keys, for incomplete scenarios.
	Keys []string

	// Status and Body are set when a response carried a non-2xx status.
	Status int
	Body   any

	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport && e.Timeout
}

// UnknownScenario reports a send on a scenario that is not registered.
func UnknownScenario(scenario, method, uri string) *Error {
	return &Error{
		Kind:     KindUnknownScenario,
		Message:  fmt.Sprintf("No virtual %s scenario found for %s:%s", scenario, method, uri),
		Scenario: scenario,
		Method:   method,
		URI:      uri,
	}
}

// NoMatchingCall reports a send that no unconsumed call of the scenario matches.
func NoMatchingCall(scenario, method, uri string) *Error {
	return &Error{
		Kind:     KindNoMatchingCall,
		Message:  fmt.Sprintf("No virtual %s call found for %s:%s", scenario, method, uri),
		Scenario: scenario,
		Method:   method,
		URI:      uri,
	}
}

// FixtureLoad reports a fixture or data provider at path that could not be loaded.
func FixtureLoad(path string, err error) *Error {
	return &Error{
		Kind:    KindFixtureLoad,
		Message: fmt.Sprintf("failed to load fixture %s", path),
		Path:    path,
		Err:     err,
	}
}

// FixtureParse reports a fixture at path that is not valid JSON or XML.
func FixtureParse(path string, err error) *Error {
	return &Error{
		Kind:    KindFixtureParse,
		Message: fmt.Sprintf("failed to parse fixture %s", path),
		Path:    path,
		Err:     err,
	}
}

// IncompleteScenario lists the call keys of scenario that were never matched.
func IncompleteScenario(scenario string, keys []string) *Error {
	return &Error{
		Kind:     KindIncompleteScenario,
		Message:  fmt.Sprintf("The following calls for scenario %s were not made: %s", scenario, strings.Join(keys, ", ")),
		Scenario: scenario,
		Keys:     keys,
	}
}

// Transport wraps a failure of the underlying send.
func Transport(method, uri string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s %s failed", method, uri),
		Method:  method,
		URI:     uri,
		Err:     err,
	}
}

// Timeout wraps a send that exceeded its deadline.
func Timeout(method, uri string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s %s timed out", method, uri),
		Method:  method,
		URI:     uri,
		Timeout: true,
		Err:     err,
	}
}

// Status reports a response with a non-2xx status code. Body is the decoded
// response body so callers can inspect the error payload.
func Status(method, uri string, status int, body any) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s %s returned status %d", method, uri, status),
		Method:  method,
		URI:     uri,
		Status:  status,
		Body:    body,
	}
}
