package profile

import "errors"

// Domain errors for the profile model.
var (
	// ErrEmptyName indicates a profile was defined without a name.
	ErrEmptyName = errors.New("profile name cannot be empty")

	// ErrTooManyPatterns indicates a capability exceeds the pattern limit.
	ErrTooManyPatterns = errors.New("capability has too many patterns")

	// ErrNoPatterns indicates a capability defines no patterns.
	ErrNoPatterns = errors.New("capability has no patterns")

	// ErrInvalidFormula indicates a formula field holds neither a number
	// nor a string expression.
	ErrInvalidFormula = errors.New("invalid formula")

	// ErrValidationFailed wraps a non-empty set of validation errors.
	ErrValidationFailed = errors.New("profile validation failed")
)
