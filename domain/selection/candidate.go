package selection

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/selector-go/domain/expr"
	"github.com/felixgeelhaar/selector-go/domain/profile"
)

// Candidate is one pattern profile evaluated against one runtime context.
// Created by the Enumerator, read-only downstream, discarded at request end.
type Candidate struct {
	ID             profile.PatternID
	Description    string
	TypicalUses    []string
	Limitations    []string
	RequiredInputs []string

	// Resolved per-request numbers.
	TimeEstimateMs float64
	CostEstimate   float64
	Complexity     float64
	Accuracy       float64
	Completeness   float64

	// Descriptive metadata carried through for prompts and justifications.
	Freshness  string
	Scope      string
	DataSource string

	Policy profile.PolicyBlock
}

// ProfileSource supplies loaded tool profiles. The catalog store satisfies
// this; tests substitute a plain map.
type ProfileSource interface {
	// AllTools returns the current profile snapshot keyed by tool name.
	// Callers must treat the returned value as immutable.
	AllTools() map[string]*profile.ToolProfile
}

// SkippedPattern records a pattern dropped during enumeration because its
// formulas failed to evaluate. One bad catalog entry never blocks the rest.
type SkippedPattern struct {
	ID  profile.PatternID
	Err error
}

// Enumerator walks loaded profiles and materializes candidates for the
// requested capabilities.
type Enumerator struct {
	source    ProfileSource
	evaluator *expr.Evaluator
}

// NewEnumerator creates an enumerator over the given profile source.
func NewEnumerator(source ProfileSource) *Enumerator {
	return &Enumerator{source: source, evaluator: expr.New()}
}

// Enumerate resolves every pattern of every matching capability into a
// candidate. Patterns whose formulas fail are returned as skipped rather
// than aborting enumeration. The result order is deterministic.
func (e *Enumerator) Enumerate(capabilities []string, rc RuntimeContext) ([]Candidate, []SkippedPattern) {
	wanted := make(map[string]bool, len(capabilities))
	for _, c := range capabilities {
		wanted[c] = true
	}

	tools := e.source.AllTools()
	toolNames := make([]string, 0, len(tools))
	for name := range tools {
		toolNames = append(toolNames, name)
	}
	sort.Strings(toolNames)

	vars := rc.vars()

	var candidates []Candidate
	var skipped []SkippedPattern
	for _, toolName := range toolNames {
		tool := tools[toolName]
		capNames := make([]string, 0, len(tool.Capabilities))
		for name := range tool.Capabilities {
			capNames = append(capNames, name)
		}
		sort.Strings(capNames)

		for _, capName := range capNames {
			if !wanted[capName] {
				continue
			}
			for _, pattern := range tool.Capabilities[capName].Patterns {
				id := profile.PatternID{Tool: toolName, Capability: capName, Pattern: pattern.Name}
				cand, err := e.resolve(id, pattern, vars)
				if err != nil {
					skipped = append(skipped, SkippedPattern{ID: id, Err: err})
					continue
				}
				candidates = append(candidates, cand)
			}
		}
	}
	return candidates, skipped
}

func (e *Enumerator) resolve(id profile.PatternID, p profile.PatternProfile, vars map[string]float64) (Candidate, error) {
	timeMs, err := p.TimeEstimateMs.Resolve(e.evaluator, vars)
	if err != nil {
		return Candidate{}, fmt.Errorf("time estimate %q: %w", p.TimeEstimateMs, err)
	}
	cost, err := p.CostEstimate.Resolve(e.evaluator, vars)
	if err != nil {
		return Candidate{}, fmt.Errorf("cost estimate %q: %w", p.CostEstimate, err)
	}

	return Candidate{
		ID:             id,
		Description:    p.Description,
		TypicalUses:    p.TypicalUses,
		Limitations:    p.Limitations,
		RequiredInputs: p.RequiredInputs,
		TimeEstimateMs: timeMs,
		CostEstimate:   cost,
		Complexity:     p.Complexity,
		Accuracy:       profile.AccuracyScore(p.AccuracyLevel),
		Completeness:   profile.CompletenessScore(p.Completeness),
		Freshness:      p.Freshness,
		Scope:          p.Scope,
		DataSource:     p.DataSource,
		Policy:         p.Policy,
	}, nil
}
