package profile

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/selector-go/domain/expr"
)

type formulaKind int

const (
	formulaUnset formulaKind = iota
	formulaLiteral
	formulaExpression
)

// Formula is a catalog estimate field that holds either a literal number or
// an arithmetic expression string. Expressions are resolved lazily, per
// request, against the runtime context.
type Formula struct {
	kind    formulaKind
	literal float64
	expr    string
}

// Literal creates a formula from a fixed number.
func Literal(v float64) Formula {
	return Formula{kind: formulaLiteral, literal: v}
}

// Expression creates a formula from an expression string.
func Expression(s string) Formula {
	return Formula{kind: formulaExpression, expr: s}
}

// IsSet reports whether the formula holds a value.
func (f Formula) IsSet() bool {
	return f.kind != formulaUnset
}

// IsExpression reports whether the formula is a deferred expression.
func (f Formula) IsExpression() bool {
	return f.kind == formulaExpression
}

// Resolve evaluates the formula against the given variables. Literals pass
// through untouched.
func (f Formula) Resolve(ev *expr.Evaluator, vars map[string]float64) (float64, error) {
	switch f.kind {
	case formulaLiteral:
		return f.literal, nil
	case formulaExpression:
		return ev.Evaluate(f.expr, vars)
	default:
		return 0, fmt.Errorf("%w: formula is unset", ErrInvalidFormula)
	}
}

// Check validates an expression formula's syntax without evaluating it.
func (f Formula) Check(ev *expr.Evaluator) error {
	if f.kind != formulaExpression {
		return nil
	}
	return ev.Check(f.expr)
}

// String renders the formula for logs and justifications.
func (f Formula) String() string {
	switch f.kind {
	case formulaLiteral:
		return strconv.FormatFloat(f.literal, 'g', -1, 64)
	case formulaExpression:
		return f.expr
	default:
		return "<unset>"
	}
}

// UnmarshalYAML accepts a YAML number (literal) or string (expression).
func (f *Formula) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected a number or expression string", ErrInvalidFormula)
	}
	switch node.Tag {
	case "!!int", "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormula, err)
		}
		*f = Literal(v)
		return nil
	case "!!str":
		var s string
		if err := node.Decode(&s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormula, err)
		}
		if s == "" {
			return fmt.Errorf("%w: empty expression", ErrInvalidFormula)
		}
		*f = Expression(s)
		return nil
	default:
		return fmt.Errorf("%w: unsupported YAML value %s", ErrInvalidFormula, node.Tag)
	}
}

// MarshalYAML renders literals as numbers and expressions as strings.
func (f Formula) MarshalYAML() (any, error) {
	switch f.kind {
	case formulaLiteral:
		return f.literal, nil
	case formulaExpression:
		return f.expr, nil
	default:
		return nil, nil
	}
}

// UnmarshalJSON accepts a JSON number (literal) or string (expression).
func (f *Formula) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormula, err)
	}
	switch t := v.(type) {
	case float64:
		*f = Literal(t)
		return nil
	case string:
		if t == "" {
			return fmt.Errorf("%w: empty expression", ErrInvalidFormula)
		}
		*f = Expression(t)
		return nil
	default:
		return fmt.Errorf("%w: expected a number or expression string", ErrInvalidFormula)
	}
}

// MarshalJSON renders literals as numbers and expressions as strings.
func (f Formula) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case formulaLiteral:
		return json.Marshal(f.literal)
	case formulaExpression:
		return json.Marshal(f.expr)
	default:
		return []byte("null"), nil
	}
}
