package scenario

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// KeyDelimiter separates a call name from its sequence number in a call key.
const KeyDelimiter = ":"

// Definition is the ordered list of expected calls of one scenario.
type Definition []Call

// Call pairs a call key with its raw spec. Keys follow the convention
// <name> or <name>:<seq>; the name selects the fixture files.
type Call struct {
	Key  string
	Spec CallSpec
}

// CallSpec describes the expected request and the response shape.
type CallSpec struct {
	Method string
	URI    string
	// URIPattern, when set, matches the incoming URI instead of literal equality.
	URIPattern *regexp.Regexp
	Query      url.Values

	Status int
	Delay  time.Duration

	// RequestData and ResponseData feed template fixtures. They take
	// precedence over data-provider files.
	RequestData  DataSource
	ResponseData DataSource
}

// IsPattern reports whether the call's URI is a pattern.
func (s CallSpec) IsPattern() bool {
	return s.URIPattern != nil
}

// Keys returns the call keys in definition order.
func (d Definition) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, c := range d {
		keys = append(keys, c.Key)
	}
	return keys
}

// Validate checks key uniqueness and that every call names a method and a URI.
func (d Definition) Validate() error {
	seen := make(map[string]bool, len(d))
	var errs []error
	for _, c := range d {
		if c.Key == "" {
			errs = append(errs, errors.New("call with empty key"))
			continue
		}
		if seen[c.Key] {
			errs = append(errs, fmt.Errorf("duplicate call key %q", c.Key))
		}
		seen[c.Key] = true

		if strings.TrimSpace(c.Spec.Method) == "" {
			errs = append(errs, fmt.Errorf("call %q: method is required", c.Key))
		}
		if c.Spec.URI == "" && c.Spec.URIPattern == nil {
			errs = append(errs, fmt.Errorf("call %q: uri or uri pattern is required", c.Key))
		}
	}
	return errors.Join(errs...)
}

// ParseKey splits a call key into its fixture name and sequence number.
// The sequence number is empty when the key has no delimiter.
func ParseKey(key string) (name, seq string) {
	name, seq, _ = strings.Cut(key, KeyDelimiter)
	return name, seq
}

// DataSource produces the substitution data of a template fixture.
type DataSource interface {
	Data() (any, error)
}

// StaticData is a fixed data value.
type StaticData struct {
	Value any
}

func (s StaticData) Data() (any, error) { return s.Value, nil }

// DataFunc is a zero-argument data-producing function, evaluated once per render.
type DataFunc func() (any, error)

func (f DataFunc) Data() (any, error) { return f() }
