package services

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/outbound/fixture"
)

// FixtureResolver scans a fixture root once per compile pass.
type FixtureResolver interface {
	Snapshot(root string) (*fixture.Snapshot, error)
}

// Compiler turns scenario definitions into compiled scenarios with their
// fixtures resolved.
type Compiler struct {
	resolver FixtureResolver
}

// NewCompiler creates a Compiler resolving fixtures through resolver.
func NewCompiler(resolver FixtureResolver) *Compiler {
	return &Compiler{resolver: resolver}
}

// Compile validates def and resolves the fixtures of every call under root.
// Definition order is preserved.
func (c *Compiler) Compile(root, name string, def scenario.Definition) (*scenario.Compiled, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}

	absRoot := root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve fixture root: %w", err)
		}
		absRoot = abs
	}

	snap, err := c.resolver.Snapshot(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}

	compiled := &scenario.Compiled{
		Name:  name,
		Root:  absRoot,
		Calls: make([]scenario.CompiledCall, 0, len(def)),
	}
	for _, call := range def {
		cc, err := compileCall(snap, call)
		if err != nil {
			return nil, fmt.Errorf("scenario %q call %q: %w", name, call.Key, err)
		}
		compiled.Calls = append(compiled.Calls, cc)
	}
	return compiled, nil
}

func compileCall(snap *fixture.Snapshot, call scenario.Call) (scenario.CompiledCall, error) {
	fixtureName, seq := scenario.ParseKey(call.Key)
	set, err := snap.Resolve(fixtureName, seq)
	if err != nil {
		return scenario.CompiledCall{}, err
	}

	spec := call.Spec
	uri := spec.URI
	if spec.URIPattern != nil {
		uri = spec.URIPattern.String()
	}

	status := spec.Status
	if status == 0 {
		status = http.StatusOK
	}

	return scenario.CompiledCall{
		Key: call.Key,
		Request: scenario.RequestSpec{
			Method:  spec.Method,
			URI:     uri,
			Pattern: spec.URIPattern,
			Query:   spec.Query,
			Body:    pickBody(set.Request, spec.RequestData),
		},
		Response: scenario.ResponseSpec{
			Status: status,
			Delay:  spec.Delay,
			Body:   pickBody(set.Response, spec.ResponseData),
		},
	}, nil
}

// pickBody selects the body fixture by precedence json, template json, xml,
// template xml. Explicit data replaces file data.
func pickBody(side fixture.Side, explicit scenario.DataSource) scenario.BodySource {
	data := side.Data
	if explicit != nil {
		data = explicit
	}

	switch {
	case side.JSON != "":
		return scenario.BodySource{Kind: scenario.BodyJSON, Path: side.JSON, Data: data}
	case side.TemplateJSON != "":
		return scenario.BodySource{Kind: scenario.BodyTemplateJSON, Path: side.TemplateJSON, Data: data}
	case side.XML != "":
		return scenario.BodySource{Kind: scenario.BodyXML, Path: side.XML, Data: data}
	case side.TemplateXML != "":
		return scenario.BodySource{Kind: scenario.BodyTemplateXML, Path: side.TemplateXML, Data: data}
	default:
		return scenario.BodySource{Kind: scenario.BodyNone, Data: data}
	}
}
