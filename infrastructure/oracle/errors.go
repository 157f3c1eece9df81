package oracle

import "errors"

var (
	// ErrNoOracle indicates no provider is configured for tie-breaking.
	ErrNoOracle = errors.New("no oracle provider configured")

	// ErrUnavailable indicates the provider call failed.
	ErrUnavailable = errors.New("oracle unavailable")

	// ErrInvalidResponse indicates the provider returned something other
	// than the expected decision JSON.
	ErrInvalidResponse = errors.New("invalid oracle response")
)
