// Package expr implements a restricted arithmetic expression evaluator for
// catalog formulas such as "120 + 0.02 * N".
//
// The evaluator is the security boundary between externally supplied profile
// data and the selection pipeline: it recognizes a fixed grammar of numeric
// operators, an allow-list of math functions and constants, and named
// variables with documented defaults. Every other construct is rejected.
// It must never grow into, or fall back to, a general-purpose interpreter.
package expr

import (
	"fmt"
	"math"
)

// Defaults applied when a variable is absent from the evaluation context.
var defaultVars = map[string]float64{
	"N":           0,
	"pages":       1,
	"p95_latency": 100,
	"cost":        1,
	"time_ms":     1000,
}

// Allowed named constants.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

const (
	// DefaultMaxDepth bounds expression nesting.
	DefaultMaxDepth = 20

	// maxExponentMagnitude rejects exponents that would blow up evaluation.
	maxExponentMagnitude = 100
)

// Evaluator evaluates restricted arithmetic expressions. The zero value is
// not usable; construct with New.
type Evaluator struct {
	maxDepth int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth overrides the nesting depth bound.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an evaluator with default limits.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate parses and evaluates the expression against the given variables.
// Variables missing from vars fall back to the documented defaults; names
// with no default are an error.
func (e *Evaluator) Evaluate(input string, vars map[string]float64) (float64, error) {
	root, err := parse(input, e.maxDepth)
	if err != nil {
		return 0, err
	}
	env := &environment{vars: vars}
	result, err := root.eval(env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotFinite, input)
	}
	return result, nil
}

// Check parses the expression without evaluating it, so callers can reject
// malformed formulas at load time. Variable and function names are not
// resolved; those are evaluation-time concerns.
func (e *Evaluator) Check(input string) error {
	_, err := parse(input, e.maxDepth)
	return err
}

// Evaluate is a convenience wrapper using default limits.
func Evaluate(input string, vars map[string]float64) (float64, error) {
	return New().Evaluate(input, vars)
}

// Check is a convenience wrapper using default limits.
func Check(input string) error {
	return New().Check(input)
}

type environment struct {
	vars map[string]float64
}

func (env *environment) lookup(name string) (float64, bool) {
	if v, ok := env.vars[name]; ok {
		return v, true
	}
	if v, ok := defaultVars[name]; ok {
		return v, true
	}
	return 0, false
}

func (n *numberNode) eval(_ *environment) (float64, error) {
	return n.val, nil
}

func (n *varNode) eval(env *environment) (float64, error) {
	if v, ok := constants[n.name]; ok {
		return v, nil
	}
	v, ok := env.lookup(n.name)
	if !ok {
		return 0, fmt.Errorf("%w: %q at position %d", ErrUnknownVariable, n.name, n.pos)
	}
	return v, nil
}

func (n *unaryNode) eval(env *environment) (float64, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return 0, err
	}
	if n.op == tokMinus {
		return -v, nil
	}
	return v, nil
}

func (n *binaryNode) eval(env *environment) (float64, error) {
	lhs, err := n.lhs.eval(env)
	if err != nil {
		return 0, err
	}
	rhs, err := n.rhs.eval(env)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case tokPlus:
		return lhs + rhs, nil
	case tokMinus:
		return lhs - rhs, nil
	case tokStar:
		return lhs * rhs, nil
	case tokSlash:
		if rhs == 0 {
			return 0, fmt.Errorf("%w: at position %d", ErrDivisionByZero, n.pos)
		}
		return lhs / rhs, nil
	case tokSlashSlash:
		if rhs == 0 {
			return 0, fmt.Errorf("%w: at position %d", ErrDivisionByZero, n.pos)
		}
		return math.Floor(lhs / rhs), nil
	case tokPercent:
		if rhs == 0 {
			return 0, fmt.Errorf("%w: at position %d", ErrDivisionByZero, n.pos)
		}
		// Remainder follows the divisor's sign, matching the formula
		// semantics the catalog was authored against.
		rem := math.Mod(lhs, rhs)
		if rem != 0 && (rem < 0) != (rhs < 0) {
			rem += rhs
		}
		return rem, nil
	case tokStarStar:
		if math.Abs(rhs) > maxExponentMagnitude {
			return 0, fmt.Errorf("%w: |%g| > %d", ErrExponentTooLarge, rhs, maxExponentMagnitude)
		}
		return math.Pow(lhs, rhs), nil
	default:
		return 0, fmt.Errorf("%w: operator at position %d", ErrDisallowedSyntax, n.pos)
	}
}

// function wraps an allow-listed math function with its arity rules.
type function struct {
	minArgs int
	maxArgs int // 0 means unbounded
	apply   func(args []float64) float64
}

var functions = map[string]function{
	"log":   {1, 1, func(a []float64) float64 { return math.Log(a[0]) }},
	"log10": {1, 1, func(a []float64) float64 { return math.Log10(a[0]) }},
	"log2":  {1, 1, func(a []float64) float64 { return math.Log2(a[0]) }},
	"sqrt":  {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"ceil":  {1, 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"floor": {1, 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"exp":   {1, 1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"min": {1, 0, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {1, 0, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

func (n *callNode) eval(env *environment) (float64, error) {
	fn, ok := functions[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: %q at position %d", ErrUnknownFunction, n.name, n.pos)
	}
	if len(n.args) < fn.minArgs || (fn.maxArgs > 0 && len(n.args) > fn.maxArgs) {
		return 0, fmt.Errorf("%w: %s takes at least %d argument(s), got %d", ErrArity, n.name, fn.minArgs, len(n.args))
	}
	args := make([]float64, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	result := fn.apply(args)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %s result", ErrNotFinite, n.name)
	}
	return result, nil
}
