package selection

import "github.com/felixgeelhaar/selector-go/domain/profile"

// ExecutionMode is the derived hint for how the winner should be run.
type ExecutionMode string

const (
	// ExecutionImmediate runs the tool inline.
	ExecutionImmediate ExecutionMode = "immediate"
	// ExecutionBackground defers the tool to a background worker.
	ExecutionBackground ExecutionMode = "background"
	// ExecutionApprovalRequired blocks the tool on human approval.
	ExecutionApprovalRequired ExecutionMode = "approval_required"
)

// SLAClass is the derived latency class of the winner.
type SLAClass string

const (
	// SLAInteractive answers within an interactive budget.
	SLAInteractive SLAClass = "interactive"
	// SLABatch answers within a batch budget.
	SLABatch SLAClass = "batch"
	// SLABackground has no latency promise.
	SLABackground SLAClass = "background"
)

// Method records how the winner was chosen.
type Method string

const (
	// MethodDeterministic means the weighted scorer decided alone.
	MethodDeterministic Method = "deterministic"
	// MethodOracleTieBreak means the oracle resolved an ambiguous pair.
	MethodOracleTieBreak Method = "oracle_tie_break"
)

// Execution hint thresholds, in milliseconds.
const (
	backgroundTimeThresholdMs = 5000.0
	interactiveSLAMs          = 1000.0
	batchSLAMs                = 10000.0
)

// Result is the final selection emitted by the orchestrator.
type Result struct {
	SelectionID string            `json:"selection_id"`
	Winner      profile.PatternID `json:"winner"`

	Method        Method  `json:"selection_method"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`

	PreferenceMode  Mode    `json:"preference_mode"`
	EstimatedTimeMs float64 `json:"estimated_time_ms"`
	EstimatedCost   float64 `json:"estimated_cost"`

	ExecutionMode ExecutionMode `json:"execution_mode"`
	SLAClass      SLAClass      `json:"sla_class"`

	// Alternatives holds up to three runner-up identities.
	Alternatives []string `json:"alternatives,omitempty"`

	IsAmbiguous bool `json:"is_ambiguous"`

	// ScoreGap is the detected gap between the top two candidates,
	// reported whether or not it crossed the ambiguity threshold.
	ScoreGap           float64 `json:"score_gap,omitempty"`
	ClarifyingQuestion string  `json:"clarifying_question,omitempty"`

	CandidateCount int `json:"candidate_count"`
	ViolationCount int `json:"violation_count"`
}

// DeriveExecutionMode ranks approval above background above immediate.
func DeriveExecutionMode(requiresApproval, requiresBackground bool, estimatedTimeMs float64) ExecutionMode {
	switch {
	case requiresApproval:
		return ExecutionApprovalRequired
	case requiresBackground || estimatedTimeMs > backgroundTimeThresholdMs:
		return ExecutionBackground
	default:
		return ExecutionImmediate
	}
}

// DeriveSLAClass classifies the estimated time into a latency class.
func DeriveSLAClass(estimatedTimeMs float64) SLAClass {
	switch {
	case estimatedTimeMs < interactiveSLAMs:
		return SLAInteractive
	case estimatedTimeMs < batchSLAMs:
		return SLABatch
	default:
		return SLABackground
	}
}
