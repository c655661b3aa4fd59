package match

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

// IncomingRequest is a request in domain terms, already split into URI and
// query, with its body prepared for comparison.
type IncomingRequest struct {
	Method string
	URI    string
	Query  url.Values
	Body   any
}

// RenderedResponse is the response of a call with its body materialized.
type RenderedResponse struct {
	Status int
	Delay  time.Duration
	Body   any
	Kind   scenario.BodyKind
}

// RenderedCall is a compiled call with concrete bodies plus the matching
// state of one activation. It is never shared between activations.
type RenderedCall struct {
	Key      string
	Method   string
	URI      string
	Pattern  *regexp.Regexp
	Query    url.Values
	Body     any
	Response RenderedResponse

	initialized bool
	called      bool
}

// Called reports whether the call has been consumed by a match.
func (c *RenderedCall) Called() bool { return c.called }

// Initialized reports whether method and URI have been normalized.
func (c *RenderedCall) Initialized() bool { return c.initialized }

// normalize uppercases the method and lowercases a literal URI, once.
func (c *RenderedCall) normalize() {
	if c.initialized {
		return
	}
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Pattern == nil {
		c.URI = strings.ToLower(c.URI)
	}
	c.initialized = true
}

// consume marks the call as matched. It returns false if it already was.
func (c *RenderedCall) consume() bool {
	if c.called {
		return false
	}
	c.called = true
	return true
}

// Unmatched returns the keys of calls never consumed, in order.
func Unmatched(calls []*RenderedCall) []string {
	var keys []string
	for _, c := range calls {
		if !c.called {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
