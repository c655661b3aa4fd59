package template

import (
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

// DataLoader compiles data-provider files into data sources.
type DataLoader struct {
	helpers map[string]any
}

// NewDataLoader creates a DataLoader whose expressions see helpers.
func NewDataLoader(helpers map[string]any) *DataLoader {
	return &DataLoader{helpers: helpers}
}

// Load reads path and compiles its expression. The returned source
// evaluates the expression on every Data call.
func (l *DataLoader) Load(path string) (scenario.DataSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data provider: %w", err)
	}
	return l.Compile(string(raw))
}

// Compile compiles a data-provider expression. A leading "module.exports ="
// and a trailing ";" are accepted.
func (l *DataLoader) Compile(source string) (scenario.DataSource, error) {
	expression := stripExports(source)
	if expression == "" {
		return nil, fmt.Errorf("data provider is empty")
	}

	program, err := expr.Compile(expression, expr.Env(l.helpers))
	if err != nil {
		return nil, fmt.Errorf("compile data provider: %w", err)
	}

	return scenario.DataFunc(func() (any, error) {
		out, err := expr.Run(program, l.helpers)
		if err != nil {
			return nil, fmt.Errorf("evaluate data provider: %w", err)
		}
		return out, nil
	}), nil
}

func stripExports(source string) string {
	s := strings.TrimSpace(source)
	s = strings.TrimPrefix(s, "module.exports")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}
