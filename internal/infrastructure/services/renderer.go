package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/domain/vherr"
)

// TemplateEngine substitutes placeholders against data.
type TemplateEngine interface {
	Text(source string, data any) (string, error)
	Value(source string, data any) (any, error)
}

// XMLDecoder turns an XML document into plain Go values.
type XMLDecoder func(source string) (any, error)

// Renderer materializes body sources into concrete values.
type Renderer struct {
	engine    TemplateEngine
	decodeXML XMLDecoder
}

// NewRenderer creates a Renderer substituting templates with engine.
func NewRenderer(engine TemplateEngine, decodeXML XMLDecoder) *Renderer {
	return &Renderer{engine: engine, decodeXML: decodeXML}
}

// Render reads and decodes src. With raw set, XML kinds are returned as text.
func (r *Renderer) Render(ctx context.Context, src scenario.BodySource, raw bool) (any, error) {
	if src.Kind == scenario.BodyNone {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, vherr.FixtureLoad(src.Path, err)
	}

	switch src.Kind {
	case scenario.BodyJSON:
		return r.parseJSON(src.Path, content)

	case scenario.BodyXML:
		if raw {
			return string(content), nil
		}
		return r.parseXML(src.Path, content)

	case scenario.BodyTemplateJSON:
		doc, err := r.parseJSON(src.Path, content)
		if err != nil {
			return nil, err
		}
		return r.substitute(src, doc)

	case scenario.BodyTemplateXML:
		if raw {
			data, err := r.data(src)
			if err != nil {
				return nil, err
			}
			text, err := r.engine.Text(string(content), data)
			if err != nil {
				return nil, vherr.FixtureParse(src.Path, err)
			}
			return text, nil
		}
		doc, err := r.parseXML(src.Path, content)
		if err != nil {
			return nil, err
		}
		return r.substitute(src, doc)
	}

	return nil, fmt.Errorf("unsupported body kind %s", src.Kind)
}

func (r *Renderer) parseJSON(path string, content []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, vherr.FixtureParse(path, err)
	}
	return doc, nil
}

func (r *Renderer) parseXML(path string, content []byte) (any, error) {
	doc, err := r.decodeXML(string(content))
	if err != nil {
		return nil, vherr.FixtureParse(path, err)
	}
	return doc, nil
}

func (r *Renderer) substitute(src scenario.BodySource, doc any) (any, error) {
	data, err := r.data(src)
	if err != nil {
		return nil, err
	}
	out, err := Substitute(r.engine, doc, data)
	if err != nil {
		return nil, vherr.FixtureParse(src.Path, err)
	}
	return out, nil
}

// data evaluates the source's data provider. Function providers run once
// per call of data, so once per render.
func (r *Renderer) data(src scenario.BodySource) (any, error) {
	if src.Data == nil {
		return nil, nil
	}
	data, err := src.Data.Data()
	if err != nil {
		return nil, vherr.FixtureLoad(src.Path, err)
	}
	return data, nil
}

// Substitute walks maps and slices of v and renders every string leaf
// through engine. v is not modified; a new structure is returned.
func Substitute(engine TemplateEngine, v, data any) (any, error) {
	switch t := v.(type) {
	case string:
		return engine.Value(t, data)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			sub, err := Substitute(engine, val, data)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = sub
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			sub, err := Substitute(engine, val, data)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}

// PrepareBody turns an outgoing request body into the shape fixtures decode
// to. Text bodies are decoded as XML, or as JSON when isJSON is set; text
// that does not decode is compared as-is.
func (r *Renderer) PrepareBody(body any, isJSON bool) any {
	var text string
	switch t := body.(type) {
	case string:
		text = t
	case []byte:
		text = string(t)
	default:
		return body
	}
	if text == "" {
		return nil
	}

	if isJSON {
		var doc any
		if err := json.Unmarshal([]byte(text), &doc); err == nil {
			return doc
		}
		return text
	}
	if r.decodeXML != nil {
		if doc, err := r.decodeXML(text); err == nil {
			return doc
		}
	}
	return text
}
