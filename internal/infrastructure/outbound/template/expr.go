package template

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var _ Engine = (*ExprEngine)(nil)

// ExprEngine evaluates ${ } placeholders with the Expr language.
type ExprEngine struct {
	helpers  map[string]any
	programs sync.Map // expression -> *vm.Program
}

// NewExprEngine creates an ExprEngine exposing the given helper functions.
func NewExprEngine(helpers map[string]any) *ExprEngine {
	return &ExprEngine{helpers: helpers}
}

// Text replaces every ${ } placeholder in source with its formatted result.
func (e *ExprEngine) Text(source string, data any) (string, error) {
	segments, err := parseExprSegments(source)
	if err != nil {
		return "", err
	}
	if !hasDynamic(segments) {
		return source, nil
	}

	env := dataEnv(data, e.helpers)
	var buf strings.Builder
	for _, seg := range segments {
		if !seg.dynamic {
			buf.WriteString(seg.static)
			continue
		}
		result, err := e.run(seg.expression, env)
		if err != nil {
			return "", err
		}
		if result != nil {
			fmt.Fprintf(&buf, "%v", result)
		}
	}
	return buf.String(), nil
}

// Value returns the typed result when source is exactly one placeholder,
// otherwise the substituted text.
func (e *ExprEngine) Value(source string, data any) (any, error) {
	segments, err := parseExprSegments(source)
	if err != nil {
		return nil, err
	}
	if len(segments) == 1 && segments[0].dynamic {
		return e.run(segments[0].expression, dataEnv(data, e.helpers))
	}
	return e.Text(source, data)
}

func (e *ExprEngine) run(expression string, env map[string]any) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("expression %q evaluation failed: %w", expression, err)
	}
	return result, nil
}

func (e *ExprEngine) compile(expression string) (*vm.Program, error) {
	if p, ok := e.programs.Load(expression); ok {
		return p.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}
	e.programs.Store(expression, program)
	return program, nil
}

type exprSegment struct {
	static     string
	expression string
	dynamic    bool
}

func hasDynamic(segments []exprSegment) bool {
	for _, seg := range segments {
		if seg.dynamic {
			return true
		}
	}
	return false
}

func parseExprSegments(source string) ([]exprSegment, error) {
	var segments []exprSegment
	remaining := source
	offset := 0

	for {
		idx := strings.Index(remaining, "${")
		if idx < 0 {
			if remaining != "" {
				segments = append(segments, exprSegment{static: remaining})
			}
			break
		}

		if idx > 0 {
			segments = append(segments, exprSegment{static: remaining[:idx]})
		}

		rest := remaining[idx+2:]
		closeIdx := findClosingBrace(rest)
		if closeIdx < 0 {
			return nil, fmt.Errorf("unclosed ${ at position %d", offset+idx)
		}

		expression := strings.TrimSpace(rest[:closeIdx])
		if expression == "" {
			return nil, fmt.Errorf("empty ${} at position %d", offset+idx)
		}
		segments = append(segments, exprSegment{expression: expression, dynamic: true})
		consumed := idx + 2 + closeIdx + 1
		offset += consumed
		remaining = remaining[consumed:]
	}

	return segments, nil
}

// findClosingBrace finds the matching } accounting for nested braces.
func findClosingBrace(s string) int {
	depth := 0
	inString := false
	var stringChar byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' && i+1 < len(s) {
				i++ // skip escaped char
				continue
			}
			if ch == stringChar {
				inString = false
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			inString = true
			stringChar = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
