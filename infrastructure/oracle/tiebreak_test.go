package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/selector-go/domain/profile"
	"github.com/felixgeelhaar/selector-go/domain/selection"
)

func tiedPair() (selection.ScoredCandidate, selection.ScoredCandidate) {
	a := selection.ScoredCandidate{
		Candidate: selection.Candidate{
			ID:             profile.PatternID{Tool: "web_search", Capability: "asset_query", Pattern: "quick_lookup"},
			Description:    "Single keyword lookup",
			TimeEstimateMs: 120,
			CostEstimate:   0.01,
			Limitations:    []string{"sample coverage only"},
		},
		Score: 0.62,
	}
	b := selection.ScoredCandidate{
		Candidate: selection.Candidate{
			ID:             profile.PatternID{Tool: "asset_db", Capability: "asset_query", Pattern: "sql_scan"},
			Description:    "Full table scan",
			TimeEstimateMs: 130,
			CostEstimate:   0,
		},
		Score: 0.61,
	}
	return a, b
}

func TestResolve_PicksWinner(t *testing.T) {
	t.Parallel()

	a, b := tiedPair()
	tests := []struct {
		name     string
		response string
		want     int
	}{
		{"plain A", `{"choice": "A", "justification": "faster"}`, 0},
		{"plain B", `{"choice": "B", "justification": "free and complete"}`, 1},
		{"json fence", "```json\n{\"choice\": \"B\", \"justification\": \"free\"}\n```", 1},
		{"bare fence", "```\n{\"choice\": \"A\", \"justification\": \"faster\"}\n```", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tb := NewTieBreaker(Config{Provider: NewMockProvider(tt.response)})
			choice, err := tb.Resolve(context.Background(), "find the asset", selection.ModeBalanced, a, b)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if choice.Winner != tt.want {
				t.Errorf("winner = %d, want %d", choice.Winner, tt.want)
			}
			if choice.Justification == "" {
				t.Error("justification should be carried through")
			}
		})
	}
}

func TestResolve_PromptNamesBothCandidates(t *testing.T) {
	t.Parallel()

	a, b := tiedPair()
	mock := NewMockProvider(`{"choice": "A", "justification": "faster"}`)
	tb := NewTieBreaker(Config{Provider: mock})

	if _, err := tb.Resolve(context.Background(), "find the asset", selection.ModeFast, a, b); err != nil {
		t.Fatal(err)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d requests", len(reqs))
	}
	prompt := reqs[0].Messages[1].Content
	for _, want := range []string{"web_search/asset_query/quick_lookup", "asset_db/asset_query/sql_scan", "find the asset", "fast"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestResolve_InvalidResponses(t *testing.T) {
	t.Parallel()

	a, b := tiedPair()
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I would pick A because it is faster."},
		{"unknown choice", `{"choice": "C", "justification": "neither"}`},
		{"extra fields", `{"choice": "A", "justification": "ok", "confidence": 0.9}`},
		{"missing justification", `{"choice": "A"}`},
		{"blank justification", `{"choice": "B", "justification": ""}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tb := NewTieBreaker(Config{Provider: NewMockProvider(tt.response)})
			_, err := tb.Resolve(context.Background(), "q", selection.ModeBalanced, a, b)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestResolve_ProviderFailure(t *testing.T) {
	t.Parallel()

	a, b := tiedPair()
	tb := NewTieBreaker(Config{Provider: NewMockProvider().Fail(errors.New("connection refused"))})
	_, err := tb.Resolve(context.Background(), "q", selection.ModeBalanced, a, b)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestResolve_NoProvider(t *testing.T) {
	t.Parallel()

	a, b := tiedPair()
	tb := NewTieBreaker(Config{})
	if tb.Available() {
		t.Error("tie-breaker without a provider should not report available")
	}
	_, err := tb.Resolve(context.Background(), "q", selection.ModeBalanced, a, b)
	if !errors.Is(err, ErrNoOracle) {
		t.Errorf("error = %v, want ErrNoOracle", err)
	}
}

func TestParseChoice_APIErrorPassthrough(t *testing.T) {
	t.Parallel()

	err := &APIError{Type: "rate_limit", Message: "slow down", Code: "429"}
	if !strings.Contains(err.Error(), "rate_limit") || !strings.Contains(err.Error(), "429") {
		t.Errorf("APIError.Error() = %q", err.Error())
	}
}
