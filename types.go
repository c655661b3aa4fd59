package vhttp

import (
	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/trace"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/template"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
)

type (
	// Definition is the ordered list of expected calls of a scenario.
	Definition = scenario.Definition
	// Call pairs a call key, <name> or <name>:<seq>, with its spec.
	Call = scenario.Call
	// CallSpec describes an expected request and the shape of its response.
	CallSpec = scenario.CallSpec

	// DataSource produces substitution data for template fixtures.
	DataSource = scenario.DataSource
	// StaticData is a fixed data value.
	StaticData = scenario.StaticData
	// DataFunc computes data on every activation.
	DataFunc = scenario.DataFunc

	// BodyKind classifies a fixture body.
	BodyKind = scenario.BodyKind

	// Event is a send lifecycle diagnostic.
	Event = ports.Event
	// EventHandlers receives diagnostics. Nil callbacks are skipped.
	EventHandlers = logging.Handlers

	// TraceEntry records how one send was matched.
	TraceEntry = trace.Entry
	// CandidateResult records the checks run against one call.
	CandidateResult = trace.CandidateResult
)

// Body kinds.
const (
	BodyNone         = scenario.BodyNone
	BodyJSON         = scenario.BodyJSON
	BodyXML          = scenario.BodyXML
	BodyTemplateJSON = scenario.BodyTemplateJSON
	BodyTemplateXML  = scenario.BodyTemplateXML
)

// Template engines.
const (
	EngineExpr   = template.EngineExpr
	EngineJinja2 = template.EngineJinja2
)
