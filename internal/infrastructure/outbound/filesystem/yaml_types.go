package filesystem

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlCall is the YAML deserialization target for one call of a scenario.
type yamlCall struct {
	Method       string                `yaml:"method"`
	URI          string                `yaml:"uri"`
	URIPattern   string                `yaml:"uri_pattern,omitempty"`
	Query        map[string]stringList `yaml:"qs,omitempty"`
	Status       int                   `yaml:"status,omitempty"`
	DelayMs      int                   `yaml:"delay_ms,omitempty"`
	RequestData  any                   `yaml:"request_data,omitempty"`
	ResponseData any                   `yaml:"response_data,omitempty"`
}

// stringList accepts either a scalar or a sequence of scalars.
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(stringList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: query values must be scalars", item.Line)
			}
			out = append(out, item.Value)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: query value must be a scalar or a list", node.Line)
	}
}
