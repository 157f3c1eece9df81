package profile

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/selector-go/domain/expr"
)

// ValidationError describes one invalid field in a loaded profile.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates tool profiles against the catalog schema.
type Validator struct {
	evaluator *expr.Evaluator
	errors    ValidationErrors
}

// NewValidator creates a new profile validator.
func NewValidator() *Validator {
	return &Validator{evaluator: expr.New()}
}

// Validate checks one tool profile and returns any errors found.
func (v *Validator) Validate(tool *ToolProfile) ValidationErrors {
	v.errors = nil

	if tool.Name == "" {
		v.addError("name", "tool name is required")
	}
	if tool.Description == "" {
		v.addError("description", "tool description is required")
	}
	if len(tool.Capabilities) == 0 {
		v.addError("capabilities", "at least one capability is required")
	}

	v.validateDefaults(tool)

	for capName, cap := range tool.Capabilities {
		v.validateCapability(capName, cap)
	}

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateDefaults(tool *ToolProfile) {
	if tool.Defaults.AccuracyLevel != "" {
		if _, ok := accuracyScores[tool.Defaults.AccuracyLevel]; !ok {
			v.addError("defaults.accuracy_level", fmt.Sprintf("invalid accuracy level: %s", tool.Defaults.AccuracyLevel))
		}
	}
	if tool.Defaults.Completeness != "" {
		if _, ok := completenessScores[tool.Defaults.Completeness]; !ok {
			v.addError("defaults.completeness", fmt.Sprintf("invalid completeness: %s", tool.Defaults.Completeness))
		}
	}
}

func (v *Validator) validateCapability(capName string, cap CapabilityProfile) {
	path := fmt.Sprintf("capabilities.%s", capName)

	if capName == "" {
		v.addError("capabilities", "capability name is required")
	}
	if len(cap.Patterns) == 0 {
		v.addError(path+".patterns", "at least one pattern is required")
	}
	if len(cap.Patterns) > MaxPatternsPerCapability {
		v.addError(path+".patterns", fmt.Sprintf("%d patterns exceeds the limit of %d", len(cap.Patterns), MaxPatternsPerCapability))
	}

	seen := make(map[string]bool, len(cap.Patterns))
	for i, p := range cap.Patterns {
		ppath := fmt.Sprintf("%s.patterns[%d]", path, i)
		if p.Name == "" {
			v.addError(ppath+".name", "pattern name is required")
		} else if seen[p.Name] {
			v.addError(ppath+".name", fmt.Sprintf("duplicate pattern name: %s", p.Name))
		}
		seen[p.Name] = true

		v.validatePattern(ppath, p)
	}
}

func (v *Validator) validatePattern(path string, p PatternProfile) {
	if !p.TimeEstimateMs.IsSet() {
		v.addError(path+".time_estimate_ms", "time estimate is required")
	} else if err := p.TimeEstimateMs.Check(v.evaluator); err != nil {
		v.addError(path+".time_estimate_ms", fmt.Sprintf("invalid formula: %v", err))
	}
	if !p.CostEstimate.IsSet() {
		v.addError(path+".cost_estimate", "cost estimate is required")
	} else if err := p.CostEstimate.Check(v.evaluator); err != nil {
		v.addError(path+".cost_estimate", fmt.Sprintf("invalid formula: %v", err))
	}

	if p.Complexity < 0 || p.Complexity > 1 {
		v.addError(path+".complexity", fmt.Sprintf("complexity %g outside [0,1]", p.Complexity))
	}

	v.validateUnit(path+".preference_match.speed", p.PreferenceMatch.Speed)
	v.validateUnit(path+".preference_match.accuracy", p.PreferenceMatch.Accuracy)
	v.validateUnit(path+".preference_match.cost", p.PreferenceMatch.Cost)
	v.validateUnit(path+".preference_match.complexity", p.PreferenceMatch.Complexity)
	v.validateUnit(path+".preference_match.completeness", p.PreferenceMatch.Completeness)

	if p.AccuracyLevel != "" {
		if _, ok := accuracyScores[p.AccuracyLevel]; !ok {
			v.addError(path+".accuracy_level", fmt.Sprintf("invalid accuracy level: %s", p.AccuracyLevel))
		}
	}
	if p.Completeness != "" {
		if _, ok := completenessScores[p.Completeness]; !ok {
			v.addError(path+".completeness", fmt.Sprintf("invalid completeness: %s", p.Completeness))
		}
	}

	if p.Policy.MaxCost != nil && *p.Policy.MaxCost < 0 {
		v.addError(path+".policy.max_cost", "max_cost must be non-negative")
	}
	if p.Policy.MaxNImmediate != nil && *p.Policy.MaxNImmediate < 0 {
		v.addError(path+".policy.max_n_immediate", "max_n_immediate must be non-negative")
	}
	if p.Policy.RequiresBackgroundIf != "" {
		if err := v.evaluator.Check(p.Policy.RequiresBackgroundIf); err != nil {
			v.addError(path+".policy.requires_background_if", fmt.Sprintf("invalid expression: %v", err))
		}
	}
}

func (v *Validator) validateUnit(path string, value float64) {
	if value < 0 || value > 1 {
		v.addError(path, fmt.Sprintf("value %g outside [0,1]", value))
	}
}
