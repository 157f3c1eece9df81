package expr

import "errors"

// Domain errors for the expression evaluator.
var (
	// ErrDisallowedSyntax indicates the input contains a construct outside
	// the allowed grammar.
	ErrDisallowedSyntax = errors.New("disallowed syntax")

	// ErrUnknownFunction indicates a call to a function that is not on the
	// allow-list.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnknownVariable indicates a variable with no value in the context
	// and no documented default.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrDivisionByZero indicates a division or modulo with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrExponentTooLarge indicates an exponent whose magnitude exceeds the
	// allowed bound.
	ErrExponentTooLarge = errors.New("exponent too large")

	// ErrDepthExceeded indicates the expression nests deeper than the
	// configured maximum.
	ErrDepthExceeded = errors.New("expression nesting too deep")

	// ErrArity indicates a function was called with the wrong number of
	// arguments.
	ErrArity = errors.New("wrong number of arguments")

	// ErrNotFinite indicates the evaluation produced NaN or an infinity.
	ErrNotFinite = errors.New("result is not finite")

	// ErrEmptyExpression indicates an empty or all-whitespace input.
	ErrEmptyExpression = errors.New("empty expression")
)
