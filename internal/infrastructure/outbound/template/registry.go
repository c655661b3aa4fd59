package template

import (
	"fmt"
	"time"
)

// Engine names.
const (
	EngineExpr   = "expr"
	EngineJinja2 = "jinja2"
)

// Registry maps engine names to their implementations.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry creates a registry with the built-in engines (expr, jinja2).
func NewRegistry(now func() time.Time) *Registry {
	helpers := Helpers(now)
	return &Registry{
		engines: map[string]Engine{
			EngineExpr:   NewExprEngine(helpers),
			EngineJinja2: NewJinja2Engine(helpers),
		},
	}
}

// Get resolves the engine by name. An empty name selects expr.
func (r *Registry) Get(name string) (Engine, error) {
	if name == "" {
		name = EngineExpr
	}
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown template engine: %q (supported: expr, jinja2)", name)
	}
	return e, nil
}
