package match

import (
	"strings"

	"github.com/sophialabs/vhttp/internal/domain/trace"
)

// Field names used in mismatch reports.
const (
	FieldQuery = "query"
	FieldBody  = "body"
)

// Mismatch describes a call whose method and URI matched but whose query or
// body did not.
type Mismatch struct {
	Key      string
	Field    string
	Method   string
	URI      string
	Expected any
	Actual   any
}

// Report renders the expected-vs-actual comparison.
func (m Mismatch) Report() string {
	var b strings.Builder
	if m.Field == FieldQuery {
		b.WriteString("Query strings do not match for ")
	} else {
		b.WriteString("Bodies do not match for ")
	}
	b.WriteString(m.Method + ":" + m.URI)
	b.WriteString("\nEXPECTED\n")
	b.WriteString(Pretty(m.Expected))
	b.WriteString("\nACTUAL\n")
	b.WriteString(Pretty(m.Actual))

	var diff string
	if m.Field == FieldQuery {
		diff = DiffQuery(asValues(m.Expected), asValues(m.Actual))
	} else {
		diff = DiffBody(m.Expected, m.Actual)
	}
	if diff != "" {
		b.WriteString("\nDIFF (-expected +actual)\n")
		b.WriteString(diff)
	}
	return b.String()
}

// EvalResult holds the outcome of matching one request.
type EvalResult struct {
	Matched    *RenderedCall
	Candidates []trace.CandidateResult
	Mismatches []Mismatch
}

// Evaluator matches incoming requests against rendered calls.
type Evaluator struct{}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scans calls in order and consumes the first unconsumed call whose
// method, URI, query and body all match. Calls are normalized on first sight.
// Mismatches on query or body for a method+URI match are collected and the
// scan goes on. The caller must serialize Evaluate per call slice.
func (e *Evaluator) Evaluate(req *IncomingRequest, calls []*RenderedCall) EvalResult {
	var result EvalResult

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	rawURI := strings.TrimSpace(req.URI)
	uri := strings.ToLower(rawURI)

	for _, c := range calls {
		c.normalize()
		if c.called {
			continue
		}

		cr := trace.CandidateResult{
			Key:      c.Key,
			Method:   c.Method,
			URI:      c.displayURI(),
			MethodOK: method == c.Method,
			QueryOK:  EqualQuery(req.Query, c.Query),
			BodyOK:   EqualBody(req.Body, c.Body),
		}
		if len(c.Query) > 0 {
			cr.Query = c.Query.Encode()
		}
		if c.Pattern != nil {
			cr.URIOK = c.Pattern.MatchString(rawURI)
		} else {
			cr.URIOK = uri == c.URI
		}

		result.Candidates = append(result.Candidates, cr)

		if cr.MethodOK && cr.URIOK {
			if !cr.QueryOK {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Key: c.Key, Field: FieldQuery, Method: method, URI: uri,
					Expected: c.Query, Actual: req.Query,
				})
			}
			if !cr.BodyOK {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Key: c.Key, Field: FieldBody, Method: method, URI: uri,
					Expected: c.Body, Actual: req.Body,
				})
			}
		}

		if cr.Matched() && c.consume() {
			result.Matched = c
			break
		}
	}

	return result
}

func (c *RenderedCall) displayURI() string {
	if c.Pattern != nil {
		return c.Pattern.String()
	}
	return c.URI
}
