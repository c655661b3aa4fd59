package template

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var _ Engine = (*Jinja2Engine)(nil)

// Jinja2Engine renders Pongo2 (Django/Jinja2-style) templates.
type Jinja2Engine struct {
	helpers   map[string]any
	templates sync.Map // source -> *pongo2.Template
}

// NewJinja2Engine creates a Jinja2Engine exposing the given helper functions.
func NewJinja2Engine(helpers map[string]any) *Jinja2Engine {
	return &Jinja2Engine{helpers: helpers}
}

func (e *Jinja2Engine) Text(source string, data any) (string, error) {
	tpl, err := e.compile(source)
	if err != nil {
		return "", err
	}
	result, err := tpl.Execute(pongo2.Context(dataEnv(data, e.helpers)))
	if err != nil {
		return "", fmt.Errorf("jinja2 template render failed: %w", err)
	}
	return result, nil
}

// Value always yields text; Pongo2 has no typed output.
func (e *Jinja2Engine) Value(source string, data any) (any, error) {
	return e.Text(source, data)
}

func (e *Jinja2Engine) compile(source string) (*pongo2.Template, error) {
	if t, ok := e.templates.Load(source); ok {
		return t.(*pongo2.Template), nil
	}
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jinja2 template: %w", err)
	}
	e.templates.Store(source, tpl)
	return tpl, nil
}
