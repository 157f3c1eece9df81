// Package policy enforces the constraints a pattern declares against the
// caller's environment. Hard violations remove a candidate before scoring;
// soft violations survive as execution hints on the decision.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/selector-go/domain/expr"
	"github.com/felixgeelhaar/selector-go/domain/selection"
)

// ViolationKind identifies which constraint a candidate violated.
type ViolationKind string

const (
	ViolationCost          ViolationKind = "cost_ceiling"
	ViolationProduction    ViolationKind = "production_safety"
	ViolationPermissions   ViolationKind = "missing_permissions"
	ViolationEnvironment   ViolationKind = "environment"
	ViolationApproval      ViolationKind = "requires_approval"
	ViolationBackground    ViolationKind = "requires_background"
	ViolationElevatedPerms ViolationKind = "elevated_permissions"
)

// Violation is one constraint check that did not pass. Hard violations
// disqualify the candidate; soft ones only shape how the winner executes.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Hard    bool          `json:"hard"`
	Message string        `json:"message"`
}

// Decision is the enforcement outcome for a single candidate.
type Decision struct {
	Allowed            bool
	RequiresApproval   bool
	RequiresBackground bool
	Violations         []Violation
}

// FilteredReason summarizes the hard violations for logging and for the
// all-candidates-removed error path.
func (d Decision) FilteredReason() string {
	var parts []string
	for _, v := range d.Violations {
		if v.Hard {
			parts = append(parts, v.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// Config is the caller-side half of enforcement: what the current
// environment permits, as opposed to what the pattern demands.
type Config struct {
	// MaxCost is the global per-selection cost ceiling in dollars.
	// Nil means unbounded.
	MaxCost *float64

	// Environment names the deployment environment ("production",
	// "staging", "dev", ...). Patterns with an environment allow-list
	// are removed when this value is not listed.
	Environment string

	// RequireProductionSafe demands production-safe patterns regardless
	// of the environment name.
	RequireProductionSafe bool

	// AvailablePermissions the caller holds.
	AvailablePermissions []string
}

func (c Config) requiresProductionSafety() bool {
	return c.RequireProductionSafe || c.Environment == "production"
}

// Permissions whose mere presence in a pattern's requirements flags it
// for human approval regardless of what the caller holds.
var elevatedPermissions = map[string]bool{
	"admin": true,
	"root":  true,
	"sudo":  true,
}

// Evaluation pairs a candidate with its enforcement decision.
type Evaluation struct {
	Candidate selection.Candidate
	Decision  Decision
}

// Enforcer applies policy blocks to candidates. It is stateless and safe
// for concurrent use.
type Enforcer struct {
	evaluator *expr.Evaluator
}

// NewEnforcer creates an enforcer with a default expression evaluator.
func NewEnforcer() *Enforcer {
	return &Enforcer{evaluator: expr.New()}
}

// Enforce checks one candidate against its own policy block and the
// caller's config. It never mutates the candidate.
func (e *Enforcer) Enforce(c selection.Candidate, rc selection.RuntimeContext, cfg Config) Decision {
	d := Decision{Allowed: true}
	pb := c.Policy

	if cfg.MaxCost != nil && c.CostEstimate > *cfg.MaxCost {
		d.fail(ViolationCost, fmt.Sprintf("estimated cost %.4f exceeds ceiling %.4f", c.CostEstimate, *cfg.MaxCost))
	}
	if pb.MaxCost != nil && c.CostEstimate > *pb.MaxCost {
		d.fail(ViolationCost, fmt.Sprintf("estimated cost %.4f exceeds the pattern's own ceiling %.4f", c.CostEstimate, *pb.MaxCost))
	}
	if cfg.requiresProductionSafety() && !pb.IsProductionSafe() {
		d.fail(ViolationProduction, "pattern is not marked production safe")
	}
	if missing := missingPermissions(pb.RequiredPermissions, cfg.AvailablePermissions); len(missing) > 0 {
		d.fail(ViolationPermissions, fmt.Sprintf("missing permissions: %s", strings.Join(missing, ", ")))
	}
	if len(pb.Environments) > 0 && !contains(pb.Environments, cfg.Environment) {
		d.fail(ViolationEnvironment, fmt.Sprintf("environment %q is not in the pattern's allow-list", cfg.Environment))
	}

	if pb.RequiresApproval {
		d.RequiresApproval = true
		d.soft(ViolationApproval, "pattern requires human approval")
	}
	for _, perm := range pb.RequiredPermissions {
		if elevatedPermissions[perm] {
			d.RequiresApproval = true
			d.soft(ViolationElevatedPerms, fmt.Sprintf("elevated permission %q requires approval", perm))
			break
		}
	}
	if pb.RequiresBackgroundIf != "" {
		// The condition language has no comparison operators, so any
		// non-zero result counts as true.
		v, err := e.evaluator.Evaluate(pb.RequiresBackgroundIf, rc)
		if err == nil && v != 0 {
			d.RequiresBackground = true
			d.soft(ViolationBackground, fmt.Sprintf("condition %q holds for this context", pb.RequiresBackgroundIf))
		}
	}
	if pb.MaxNImmediate != nil {
		if n, ok := rc["N"]; ok && n > *pb.MaxNImmediate {
			d.RequiresBackground = true
			d.soft(ViolationBackground, fmt.Sprintf("N=%g exceeds the immediate-execution limit %g", n, *pb.MaxNImmediate))
		}
	}
	return d
}

// FilterCandidates enforces every candidate and partitions the results.
// Removed evaluations keep their decisions so callers can report why.
func (e *Enforcer) FilterCandidates(candidates []selection.Candidate, rc selection.RuntimeContext, cfg Config) (allowed, removed []Evaluation) {
	for _, c := range candidates {
		d := e.Enforce(c, rc, cfg)
		ev := Evaluation{Candidate: c, Decision: d}
		if d.Allowed {
			allowed = append(allowed, ev)
		} else {
			removed = append(removed, ev)
		}
	}
	return allowed, removed
}

func (d *Decision) fail(kind ViolationKind, msg string) {
	d.Allowed = false
	d.Violations = append(d.Violations, Violation{Kind: kind, Hard: true, Message: msg})
}

func (d *Decision) soft(kind ViolationKind, msg string) {
	d.Violations = append(d.Violations, Violation{Kind: kind, Hard: false, Message: msg})
}

func missingPermissions(required, available []string) []string {
	have := make(map[string]bool, len(available))
	for _, p := range available {
		have[p] = true
	}
	var missing []string
	for _, p := range required {
		if !have[p] {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
