package scenario

import (
	"net/url"
	"regexp"
	"time"
)

// BodyKind classifies where a body comes from.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyXML
	BodyTemplateJSON
	BodyTemplateXML
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyXML:
		return "xml"
	case BodyTemplateJSON:
		return "template-json"
	case BodyTemplateXML:
		return "template-xml"
	default:
		return "none"
	}
}

// IsXML reports whether the body is an XML fixture (static or template).
func (k BodyKind) IsXML() bool {
	return k == BodyXML || k == BodyTemplateXML
}

// IsTemplate reports whether the body needs substitution data.
func (k BodyKind) IsTemplate() bool {
	return k == BodyTemplateJSON || k == BodyTemplateXML
}

// BodySource points at the fixture file of one side of a call.
type BodySource struct {
	Kind BodyKind
	Path string
	Data DataSource
}

// RequestSpec is the compiled expected request.
type RequestSpec struct {
	Method  string
	URI     string
	Pattern *regexp.Regexp
	Query   url.Values
	Body    BodySource
}

// ResponseSpec is the compiled response.
type ResponseSpec struct {
	Status int
	Delay  time.Duration
	Body   BodySource
}

// CompiledCall is one call with its fixtures resolved. It holds no rendered
// values and no matching state, so it is safe to share across activations.
type CompiledCall struct {
	Key      string
	Request  RequestSpec
	Response ResponseSpec
}

// Compiled is a registered scenario ready for activation.
type Compiled struct {
	Name  string
	Root  string
	Calls []CompiledCall
}

// Keys returns the call keys in registration order.
func (c *Compiled) Keys() []string {
	keys := make([]string, 0, len(c.Calls))
	for _, cc := range c.Calls {
		keys = append(keys, cc.Key)
	}
	return keys
}
