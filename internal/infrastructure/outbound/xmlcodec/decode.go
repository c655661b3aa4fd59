// Package xmlcodec decodes XML documents into plain Go values.
package xmlcodec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// TextKey holds element text when the element also has attributes or children.
const TextKey = "_"

// ErrNoRoot is returned for documents without a root element.
var ErrNoRoot = errors.New("xml document has no root element")

// Decode parses an XML document into nested maps keyed by element name,
// starting with the root element. Attributes are merged into the element's
// map, repeated children become slices, and an element with neither
// attributes nor children decodes to its text.
func Decode(source string) (any, error) {
	doc, err := xmlquery.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}

	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	return map[string]any{qualified(root.Prefix, root.Data): element(root)}, nil
}

func element(n *xmlquery.Node) any {
	fields := make(map[string]any)
	for _, a := range n.Attr {
		fields[qualified(a.Name.Space, a.Name.Local)] = a.Value
	}

	var text strings.Builder
	hasChildren := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			hasChildren = true
			addChild(fields, qualified(c.Prefix, c.Data), element(c))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		}
	}

	s := text.String()
	if strings.TrimSpace(s) == "" {
		s = ""
	}

	if len(fields) == 0 && !hasChildren {
		return s
	}
	if s != "" {
		fields[TextKey] = s
	}
	return fields
}

func addChild(fields map[string]any, name string, v any) {
	existing, ok := fields[name]
	if !ok {
		fields[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		fields[name] = append(list, v)
		return
	}
	fields[name] = []any{existing, v}
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
