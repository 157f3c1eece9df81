// Package profile provides the domain model for the tool catalog: tools,
// their capabilities, and the usage patterns that fulfil each capability.
//
// Profiles are immutable once loaded. Tool-level defaults are folded into
// patterns exactly once, at load time, and never re-applied afterwards.
package profile

import "fmt"

// MaxPatternsPerCapability bounds the number of usage patterns a single
// capability may declare.
const MaxPatternsPerCapability = 5

// Accuracy level descriptors and the numeric scores they resolve to.
const (
	AccuracyExact  = "exact"
	AccuracyHigh   = "high"
	AccuracyMedium = "medium"
	AccuracyLow    = "low"
)

var accuracyScores = map[string]float64{
	AccuracyExact:  1.0,
	AccuracyHigh:   0.9,
	AccuracyMedium: 0.7,
	AccuracyLow:    0.5,
}

// Completeness descriptors and the numeric scores they resolve to.
const (
	CompletenessFull    = "full"
	CompletenessPartial = "partial"
	CompletenessSample  = "sample"
)

var completenessScores = map[string]float64{
	CompletenessFull:    1.0,
	CompletenessPartial: 0.6,
	CompletenessSample:  0.3,
}

// Freshness descriptors. Metadata only; not scored.
const (
	FreshnessRealtime = "realtime"
	FreshnessRecent   = "recent"
	FreshnessDaily    = "daily"
	FreshnessStatic   = "static"
)

// AccuracyScore maps an accuracy descriptor to [0,1]. An unset descriptor
// resolves to the medium score.
func AccuracyScore(level string) float64 {
	if s, ok := accuracyScores[level]; ok {
		return s
	}
	return accuracyScores[AccuracyMedium]
}

// CompletenessScore maps a completeness descriptor to [0,1]. An unset
// descriptor resolves to the partial score.
func CompletenessScore(level string) float64 {
	if s, ok := completenessScores[level]; ok {
		return s
	}
	return completenessScores[CompletenessPartial]
}

// PreferenceMatch declares how well a pattern serves each preference
// dimension, each value in [0,1].
type PreferenceMatch struct {
	Speed        float64 `yaml:"speed" json:"speed"`
	Accuracy     float64 `yaml:"accuracy" json:"accuracy"`
	Cost         float64 `yaml:"cost" json:"cost"`
	Complexity   float64 `yaml:"complexity" json:"complexity"`
	Completeness float64 `yaml:"completeness" json:"completeness"`
}

// PolicyBlock carries the policy constraints attached to a pattern.
type PolicyBlock struct {
	// MaxCost is the pattern's own cost ceiling in dollars, if any.
	MaxCost *float64 `yaml:"max_cost,omitempty" json:"max_cost,omitempty"`

	// MaxNImmediate is the largest item count the pattern should handle
	// in immediate (foreground) execution.
	MaxNImmediate *float64 `yaml:"max_n_immediate,omitempty" json:"max_n_immediate,omitempty"`

	// RequiresApproval flags the pattern for human approval.
	RequiresApproval bool `yaml:"requires_approval,omitempty" json:"requires_approval,omitempty"`

	// RequiresBackgroundIf is an expression over the runtime context; a
	// non-zero result flags the pattern for background execution.
	RequiresBackgroundIf string `yaml:"requires_background_if,omitempty" json:"requires_background_if,omitempty"`

	// ProductionSafe marks the pattern safe for production use.
	// Unset means true.
	ProductionSafe *bool `yaml:"production_safe,omitempty" json:"production_safe,omitempty"`

	// RequiredPermissions the caller must hold to use the pattern.
	RequiredPermissions []string `yaml:"required_permissions,omitempty" json:"required_permissions,omitempty"`

	// Environments is an allow-list of environment names. Empty means any.
	Environments []string `yaml:"environments,omitempty" json:"environments,omitempty"`
}

// IsProductionSafe resolves the production_safe default of true.
func (p PolicyBlock) IsProductionSafe() bool {
	return p.ProductionSafe == nil || *p.ProductionSafe
}

// PatternProfile is one named way of fulfilling a capability with a tool.
type PatternProfile struct {
	Name            string          `yaml:"name" json:"name"`
	Description     string          `yaml:"description" json:"description"`
	TypicalUses     []string        `yaml:"typical_uses,omitempty" json:"typical_uses,omitempty"`
	TimeEstimateMs  Formula         `yaml:"time_estimate_ms" json:"time_estimate_ms"`
	CostEstimate    Formula         `yaml:"cost_estimate" json:"cost_estimate"`
	Complexity      float64         `yaml:"complexity" json:"complexity"`
	AccuracyLevel   string          `yaml:"accuracy_level,omitempty" json:"accuracy_level,omitempty"`
	Freshness       string          `yaml:"freshness,omitempty" json:"freshness,omitempty"`
	DataSource      string          `yaml:"data_source,omitempty" json:"data_source,omitempty"`
	Scope           string          `yaml:"scope,omitempty" json:"scope,omitempty"`
	Completeness    string          `yaml:"completeness,omitempty" json:"completeness,omitempty"`
	Limitations     []string        `yaml:"limitations,omitempty" json:"limitations,omitempty"`
	RequiredInputs  []string        `yaml:"required_inputs,omitempty" json:"required_inputs,omitempty"`
	Policy          PolicyBlock     `yaml:"policy,omitempty" json:"policy,omitempty"`
	PreferenceMatch PreferenceMatch `yaml:"preference_match" json:"preference_match"`
}

// CapabilityProfile groups the patterns a tool offers for one capability.
type CapabilityProfile struct {
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Patterns    []PatternProfile `yaml:"patterns" json:"patterns"`
}

// Defaults is the tool-level defaults block, inherited by patterns that
// leave the corresponding field unset.
type Defaults struct {
	AccuracyLevel string `yaml:"accuracy_level,omitempty" json:"accuracy_level,omitempty"`
	Freshness     string `yaml:"freshness,omitempty" json:"freshness,omitempty"`
	DataSource    string `yaml:"data_source,omitempty" json:"data_source,omitempty"`
	Scope         string `yaml:"scope,omitempty" json:"scope,omitempty"`
	Completeness  string `yaml:"completeness,omitempty" json:"completeness,omitempty"`
}

// ToolProfile describes one tool and the capabilities it offers.
type ToolProfile struct {
	Name         string                       `yaml:"-" json:"name"`
	Description  string                       `yaml:"description" json:"description"`
	Defaults     Defaults                     `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Capabilities map[string]CapabilityProfile `yaml:"capabilities" json:"capabilities"`
}

// ApplyDefaults folds the tool's defaults into every pattern field left
// unset. Called once at load time; idempotent but never re-run on a loaded
// profile.
func (t *ToolProfile) ApplyDefaults() {
	for name, cap := range t.Capabilities {
		for i := range cap.Patterns {
			p := &cap.Patterns[i]
			if p.AccuracyLevel == "" {
				p.AccuracyLevel = t.Defaults.AccuracyLevel
			}
			if p.Freshness == "" {
				p.Freshness = t.Defaults.Freshness
			}
			if p.DataSource == "" {
				p.DataSource = t.Defaults.DataSource
			}
			if p.Scope == "" {
				p.Scope = t.Defaults.Scope
			}
			if p.Completeness == "" {
				p.Completeness = t.Defaults.Completeness
			}
		}
		t.Capabilities[name] = cap
	}
}

// PatternID identifies a pattern within the catalog.
type PatternID struct {
	Tool       string `json:"tool"`
	Capability string `json:"capability"`
	Pattern    string `json:"pattern"`
}

// String renders the identity as tool/capability/pattern.
func (id PatternID) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Tool, id.Capability, id.Pattern)
}
