// Package selection provides the domain model for the optimization
// pipeline: candidate enumeration, feature normalization, preference
// detection, deterministic scoring, and ambiguity detection.
//
// Everything in this package is pure computation over request-scoped
// values. Nothing is persisted and nothing blocks.
package selection

import "regexp"

// RuntimeContext is the request-scoped variable map used for formula and
// policy-expression evaluation. Keys are variable names (N, pages,
// p95_latency, ...) plus any caller-supplied extras.
type RuntimeContext map[string]float64

// Conservative defaults applied when a request carries no context at all.
var enumerationDefaults = RuntimeContext{
	"N":           100,
	"pages":       1,
	"p95_latency": 1000,
}

// Clone returns a copy the caller may mutate freely.
func (rc RuntimeContext) Clone() RuntimeContext {
	out := make(RuntimeContext, len(rc))
	for k, v := range rc {
		out[k] = v
	}
	return out
}

// Merge overlays other onto rc and returns the result; values in other win.
func (rc RuntimeContext) Merge(other RuntimeContext) RuntimeContext {
	out := rc.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// vars resolves the context for formula evaluation. An absent context gets
// the conservative enumeration defaults; a present one is used as-is and
// leaves per-variable defaults to the evaluator.
func (rc RuntimeContext) vars() map[string]float64 {
	if len(rc) == 0 {
		return enumerationDefaults
	}
	return rc
}

var (
	bulkHintPattern   = regexp.MustCompile(`(?i)\b(?:all|every|everything|entire|bulk)\b`)
	singleHintPattern = regexp.MustCompile(`(?i)\b(?:single|one|just one|specific)\b`)
	pagesHintPattern  = regexp.MustCompile(`(?i)\bpages?\b`)
)

// EstimateContext derives a rough runtime context from free query text.
// The heuristics are intentionally coarse; explicit caller-supplied values
// always win, so merge the explicit context over the estimate.
func EstimateContext(query string) RuntimeContext {
	rc := RuntimeContext{}
	switch {
	case singleHintPattern.MatchString(query):
		rc["N"] = 1
	case bulkHintPattern.MatchString(query):
		rc["N"] = 1000
	}
	if pagesHintPattern.MatchString(query) {
		rc["pages"] = 5
	}
	return rc
}
