package profile

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func validTool() *ToolProfile {
	return &ToolProfile{
		Name:        "web_search",
		Description: "Searches the public web",
		Defaults: Defaults{
			AccuracyLevel: AccuracyHigh,
			Freshness:     FreshnessRecent,
			DataSource:    "public_web",
			Completeness:  CompletenessPartial,
		},
		Capabilities: map[string]CapabilityProfile{
			"asset_query": {
				Description: "Look up assets by name",
				Patterns: []PatternProfile{
					{
						Name:           "quick_lookup",
						Description:    "Single keyword search",
						TimeEstimateMs: Literal(120),
						CostEstimate:   Expression("0.001 * N"),
						Complexity:     0.1,
						PreferenceMatch: PreferenceMatch{
							Speed: 0.9, Accuracy: 0.6, Cost: 0.9, Complexity: 0.9, Completeness: 0.4,
						},
					},
				},
			},
		},
	}
}

func TestValidator_ValidProfile(t *testing.T) {
	t.Parallel()

	errs := NewValidator().Validate(validTool())
	if errs.HasErrors() {
		t.Errorf("valid profile should pass, got: %v", errs)
	}
}

func TestValidator_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ToolProfile)
		path   string
	}{
		{"missing name", func(tp *ToolProfile) { tp.Name = "" }, "name"},
		{"missing description", func(tp *ToolProfile) { tp.Description = "" }, "description"},
		{"no capabilities", func(tp *ToolProfile) { tp.Capabilities = nil }, "capabilities"},
		{"bad default accuracy", func(tp *ToolProfile) { tp.Defaults.AccuracyLevel = "perfect" }, "defaults.accuracy_level"},
		{"complexity out of range", func(tp *ToolProfile) {
			cap := tp.Capabilities["asset_query"]
			cap.Patterns[0].Complexity = 1.5
			tp.Capabilities["asset_query"] = cap
		}, "capabilities.asset_query.patterns[0].complexity"},
		{"preference match out of range", func(tp *ToolProfile) {
			cap := tp.Capabilities["asset_query"]
			cap.Patterns[0].PreferenceMatch.Speed = -0.1
			tp.Capabilities["asset_query"] = cap
		}, "capabilities.asset_query.patterns[0].preference_match.speed"},
		{"missing time estimate", func(tp *ToolProfile) {
			cap := tp.Capabilities["asset_query"]
			cap.Patterns[0].TimeEstimateMs = Formula{}
			tp.Capabilities["asset_query"] = cap
		}, "capabilities.asset_query.patterns[0].time_estimate_ms"},
		{"malformed cost formula", func(tp *ToolProfile) {
			cap := tp.Capabilities["asset_query"]
			cap.Patterns[0].CostEstimate = Expression("0.01 * [N]")
			tp.Capabilities["asset_query"] = cap
		}, "capabilities.asset_query.patterns[0].cost_estimate"},
		{"malformed background expression", func(tp *ToolProfile) {
			cap := tp.Capabilities["asset_query"]
			cap.Patterns[0].Policy.RequiresBackgroundIf = "N >"
			tp.Capabilities["asset_query"] = cap
		}, "capabilities.asset_query.patterns[0].policy.requires_background_if"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tool := validTool()
			tt.mutate(tool)
			errs := NewValidator().Validate(tool)
			if !errs.HasErrors() {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at path %q, got: %v", tt.path, errs)
			}
		})
	}
}

func TestValidator_PatternLimit(t *testing.T) {
	t.Parallel()

	tool := validTool()
	cap := tool.Capabilities["asset_query"]
	base := cap.Patterns[0]
	for i := 0; i < MaxPatternsPerCapability; i++ {
		p := base
		p.Name = base.Name + string(rune('a'+i))
		cap.Patterns = append(cap.Patterns, p)
	}
	tool.Capabilities["asset_query"] = cap

	errs := NewValidator().Validate(tool)
	if !errs.HasErrors() {
		t.Errorf("%d patterns should exceed the limit of %d", len(cap.Patterns), MaxPatternsPerCapability)
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	tool := validTool()
	cap := tool.Capabilities["asset_query"]
	cap.Patterns[0].AccuracyLevel = AccuracyLow // explicitly set, must survive
	tool.Capabilities["asset_query"] = cap

	tool.ApplyDefaults()

	p := tool.Capabilities["asset_query"].Patterns[0]
	if p.AccuracyLevel != AccuracyLow {
		t.Errorf("explicit accuracy_level overwritten: %s", p.AccuracyLevel)
	}
	if p.Freshness != FreshnessRecent {
		t.Errorf("freshness not inherited: %q", p.Freshness)
	}
	if p.DataSource != "public_web" {
		t.Errorf("data_source not inherited: %q", p.DataSource)
	}
	if p.Completeness != CompletenessPartial {
		t.Errorf("completeness not inherited: %q", p.Completeness)
	}
	if p.Scope != "" {
		t.Errorf("unset default should stay empty, got %q", p.Scope)
	}
}

func TestFormula_YAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Time Formula `yaml:"time"`
		Cost Formula `yaml:"cost"`
	}
	input := "time: 120\ncost: \"0.02 * N\"\n"
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Time.IsExpression() {
		t.Error("numeric scalar should decode as literal")
	}
	v, err := doc.Time.Resolve(nil, nil)
	if err != nil || v != 120 {
		t.Errorf("literal resolve = %g, %v", v, err)
	}

	if !doc.Cost.IsExpression() {
		t.Error("string scalar should decode as expression")
	}
	if doc.Cost.String() != "0.02 * N" {
		t.Errorf("expression string = %q", doc.Cost.String())
	}
}

func TestFormula_YAMLRejectsNonScalar(t *testing.T) {
	t.Parallel()

	var doc struct {
		Time Formula `yaml:"time"`
	}
	if err := yaml.Unmarshal([]byte("time:\n  - 1\n"), &doc); err == nil {
		t.Error("sequence value should be rejected")
	}
}

func TestScores(t *testing.T) {
	t.Parallel()

	if AccuracyScore(AccuracyExact) != 1.0 {
		t.Error("exact accuracy should score 1.0")
	}
	if AccuracyScore("") != accuracyScores[AccuracyMedium] {
		t.Error("unset accuracy should resolve to medium")
	}
	if CompletenessScore(CompletenessFull) != 1.0 {
		t.Error("full completeness should score 1.0")
	}
	if CompletenessScore("") != completenessScores[CompletenessPartial] {
		t.Error("unset completeness should resolve to partial")
	}
}

func TestPatternID_String(t *testing.T) {
	t.Parallel()

	id := PatternID{Tool: "web_search", Capability: "asset_query", Pattern: "quick_lookup"}
	if id.String() != "web_search/asset_query/quick_lookup" {
		t.Errorf("PatternID.String() = %s", id)
	}
}
