package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/selector-go/domain/policy"
	"github.com/felixgeelhaar/selector-go/domain/profile"
	"github.com/felixgeelhaar/selector-go/domain/selection"
	"github.com/felixgeelhaar/selector-go/infrastructure/oracle"
)

type mapSource map[string]*profile.ToolProfile

func (m mapSource) AllTools() map[string]*profile.ToolProfile { return m }

func f64(v float64) *float64 { return &v }

func fixtureSource() mapSource {
	return mapSource{
		"web_search": {
			Name:        "web_search",
			Description: "Searches the public web",
			Capabilities: map[string]profile.CapabilityProfile{
				"asset_query": {
					Patterns: []profile.PatternProfile{
						{
							Name:           "quick_lookup",
							Description:    "Single keyword lookup",
							TimeEstimateMs: profile.Literal(120),
							CostEstimate:   profile.Expression("0.001 * N"),
							Complexity:     0.1,
							AccuracyLevel:  profile.AccuracyMedium,
							Completeness:   profile.CompletenessSample,
						},
						{
							Name:           "deep_crawl",
							Description:    "Exhaustive crawl",
							TimeEstimateMs: profile.Literal(45000),
							CostEstimate:   profile.Literal(0.5),
							Complexity:     0.6,
							AccuracyLevel:  profile.AccuracyHigh,
							Completeness:   profile.CompletenessFull,
						},
					},
				},
			},
		},
	}
}

func newTestSelector(t *testing.T, config Config) *Selector {
	t.Helper()
	if config.Profiles == nil {
		config.Profiles = fixtureSource()
	}
	s, err := NewSelector(config)
	if err != nil {
		t.Fatalf("NewSelector() error: %v", err)
	}
	return s
}

func TestSelect_DeterministicWinner(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{})
	result, err := s.Select(context.Background(), Request{
		Query:        "I need this fast",
		Capabilities: []string{"asset_query"},
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	if result.Winner.Pattern != "quick_lookup" {
		t.Errorf("winner = %s, want quick_lookup", result.Winner)
	}
	if result.Method != selection.MethodDeterministic {
		t.Errorf("method = %s", result.Method)
	}
	if result.PreferenceMode != selection.ModeFast {
		t.Errorf("mode = %s", result.PreferenceMode)
	}
	if result.SelectionID == "" {
		t.Error("selection ID should be set")
	}
	if result.CandidateCount != 2 {
		t.Errorf("candidate count = %d", result.CandidateCount)
	}
	if len(result.Alternatives) != 1 || !strings.Contains(result.Alternatives[0], "deep_crawl") {
		t.Errorf("alternatives = %v", result.Alternatives)
	}
	if result.ExecutionMode != selection.ExecutionImmediate {
		t.Errorf("execution mode = %s", result.ExecutionMode)
	}
	if result.SLAClass != selection.SLAInteractive {
		t.Errorf("sla class = %s", result.SLAClass)
	}
}

func TestSelect_RequestValidation(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{})

	_, err := s.Select(context.Background(), Request{Query: "q"})
	if !errors.Is(err, ErrNoCapabilities) {
		t.Errorf("error = %v, want ErrNoCapabilities", err)
	}

	_, err = s.Select(context.Background(), Request{
		Query:        "q",
		Capabilities: []string{"asset_query"},
		Mode:         "luxurious",
	})
	if err == nil {
		t.Error("invalid mode should be rejected")
	}
}

func TestSelect_NoViableTools(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{})
	_, err := s.Select(context.Background(), Request{
		Query:        "q",
		Capabilities: []string{"sentiment"},
	})
	if !errors.Is(err, ErrNoViableTools) {
		t.Errorf("error = %v, want ErrNoViableTools", err)
	}
}

func TestSelect_AllCandidatesRemovedByPolicy(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{
		Policy: policy.Config{MaxCost: f64(0.00001)},
	})
	_, err := s.Select(context.Background(), Request{
		Query:        "q",
		Capabilities: []string{"asset_query"},
		Context:      selection.RuntimeContext{"N": 1000},
	})

	var pvErr *AllPolicyViolationsError
	if !errors.As(err, &pvErr) {
		t.Fatalf("error = %v, want AllPolicyViolationsError", err)
	}
	if len(pvErr.Reasons) != 2 {
		t.Errorf("got %d reasons, want 2", len(pvErr.Reasons))
	}
	if !strings.Contains(pvErr.Error(), "web_search/asset_query/quick_lookup") {
		t.Errorf("error should name the removed patterns: %s", pvErr.Error())
	}
}

func TestSelect_ApprovalSurvivesAsExecutionHint(t *testing.T) {
	t.Parallel()

	src := fixtureSource()
	patterns := src["web_search"].Capabilities["asset_query"].Patterns
	patterns[0].Policy = profile.PolicyBlock{RequiresApproval: true}

	s := newTestSelector(t, Config{Profiles: src})
	result, err := s.Select(context.Background(), Request{
		Query:        "quickly please",
		Capabilities: []string{"asset_query"},
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if result.Winner.Pattern != "quick_lookup" {
		t.Fatalf("winner = %s", result.Winner)
	}
	if result.ExecutionMode != selection.ExecutionApprovalRequired {
		t.Errorf("execution mode = %s, want approval_required", result.ExecutionMode)
	}
}

func ambiguousSource() mapSource {
	// Two patterns with identical features always tie.
	pattern := func(name string) profile.PatternProfile {
		return profile.PatternProfile{
			Name:           name,
			TimeEstimateMs: profile.Literal(120),
			CostEstimate:   profile.Literal(0.01),
			Complexity:     0.1,
			AccuracyLevel:  profile.AccuracyMedium,
			Completeness:   profile.CompletenessSample,
		}
	}
	return mapSource{
		"web_search": {
			Name:        "web_search",
			Description: "Searches the public web",
			Capabilities: map[string]profile.CapabilityProfile{
				"asset_query": {
					Patterns: []profile.PatternProfile{pattern("alpha"), pattern("beta")},
				},
			},
		},
	}
}

func TestSelect_AmbiguousWithoutOracle(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{Profiles: ambiguousSource()})
	result, err := s.Select(context.Background(), Request{
		Query:        "find the asset",
		Capabilities: []string{"asset_query"},
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	if !result.IsAmbiguous {
		t.Error("identical candidates should be reported ambiguous")
	}
	if result.ClarifyingQuestion == "" {
		t.Error("ambiguous result should carry a clarifying question")
	}
	if result.Method != selection.MethodDeterministic {
		t.Errorf("method = %s", result.Method)
	}
	// Deterministic tie-break by identity.
	if result.Winner.Pattern != "alpha" {
		t.Errorf("winner = %s, want alpha", result.Winner)
	}
}

func TestSelect_OracleResolvesTie(t *testing.T) {
	t.Parallel()

	tb := oracle.NewTieBreaker(oracle.Config{
		Provider: oracle.NewMockProvider(`{"choice": "B", "justification": "beta suits the query"}`),
	})
	s := newTestSelector(t, Config{Profiles: ambiguousSource(), TieBreaker: tb})

	result, err := s.Select(context.Background(), Request{
		Query:        "find the asset",
		Capabilities: []string{"asset_query"},
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	if result.Winner.Pattern != "beta" {
		t.Errorf("winner = %s, want the oracle's pick beta", result.Winner)
	}
	if result.Method != selection.MethodOracleTieBreak {
		t.Errorf("method = %s", result.Method)
	}
	if result.IsAmbiguous {
		t.Error("a resolved tie is no longer ambiguous")
	}
	if result.Justification != "beta suits the query" {
		t.Errorf("justification = %q", result.Justification)
	}
	if len(result.Alternatives) != 1 || !strings.Contains(result.Alternatives[0], "alpha") {
		t.Errorf("alternatives = %v", result.Alternatives)
	}
}

func TestSelect_UnreachableOracleFailsHard(t *testing.T) {
	t.Parallel()

	tb := oracle.NewTieBreaker(oracle.Config{
		Provider: oracle.NewMockProvider().Fail(errors.New("connection refused")),
	})
	s := newTestSelector(t, Config{Profiles: ambiguousSource(), TieBreaker: tb})

	result, err := s.Select(context.Background(), Request{
		Query:        "find the asset",
		Capabilities: []string{"asset_query"},
	})
	if result != nil {
		t.Errorf("an unreachable oracle must not yield a result, got winner %s", result.Winner)
	}
	if !errors.Is(err, oracle.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestSelect_UnparsableOracleReplyFailsHard(t *testing.T) {
	t.Parallel()

	tb := oracle.NewTieBreaker(oracle.Config{
		Provider: oracle.NewMockProvider("beta, probably"),
	})
	s := newTestSelector(t, Config{Profiles: ambiguousSource(), TieBreaker: tb})

	result, err := s.Select(context.Background(), Request{
		Query:        "find the asset",
		Capabilities: []string{"asset_query"},
	})
	if result != nil {
		t.Errorf("an unparsable reply must not yield a result, got winner %s", result.Winner)
	}
	if !errors.Is(err, oracle.ErrInvalidResponse) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestSelect_ExplicitModeOverridesQuery(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{})
	result, err := s.Select(context.Background(), Request{
		Query:        "I need this fast",
		Capabilities: []string{"asset_query"},
		Mode:         "thorough",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.PreferenceMode != selection.ModeThorough {
		t.Errorf("mode = %s, want thorough", result.PreferenceMode)
	}
	if result.Winner.Pattern != "deep_crawl" {
		t.Errorf("winner = %s, thorough mode should prefer the complete pattern", result.Winner)
	}
}

func TestSelect_BackgroundHintForSlowWinner(t *testing.T) {
	t.Parallel()

	s := newTestSelector(t, Config{})
	result, err := s.Select(context.Background(), Request{
		Query:        "q",
		Capabilities: []string{"asset_query"},
		Mode:         "thorough",
	})
	if err != nil {
		t.Fatal(err)
	}
	// deep_crawl's 45000 ms estimate crosses the background threshold.
	if result.ExecutionMode != selection.ExecutionBackground {
		t.Errorf("execution mode = %s, want background", result.ExecutionMode)
	}
	if result.SLAClass != selection.SLABackground {
		t.Errorf("sla class = %s, want background", result.SLAClass)
	}
}
