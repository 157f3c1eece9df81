package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoCapabilities indicates the request named no capabilities.
	ErrNoCapabilities = errors.New("at least one capability is required")

	// ErrNoViableTools indicates enumeration produced no candidates for
	// the requested capabilities.
	ErrNoViableTools = errors.New("no viable tools for the requested capabilities")
)

// AllPolicyViolationsError is returned when every enumerated candidate
// was removed by policy enforcement. Reasons are keyed by pattern
// identity so callers can explain the empty result.
type AllPolicyViolationsError struct {
	Reasons map[string]string
}

func (e *AllPolicyViolationsError) Error() string {
	ids := make([]string, 0, len(e.Reasons))
	for id := range e.Reasons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, e.Reasons[id]))
	}
	return "all candidates removed by policy: " + strings.Join(parts, "; ")
}
