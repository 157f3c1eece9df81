package selection

import (
	"math"
	"strings"
	"testing"

	"github.com/felixgeelhaar/selector-go/domain/profile"
)

func TestWeights_SumToOne(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ModeFast, ModeAccurate, ModeThorough, ModeCheap, ModeSimple, ModeBalanced} {
		sum := WeightsFor(mode).Sum()
		if math.Abs(sum-1.0) > 0.01 {
			t.Errorf("weights for %s sum to %g, want 1.0 +/- 0.01", mode, sum)
		}
	}
}

func TestWeights_FavoredDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		dim  string
	}{
		{ModeFast, DimTime},
		{ModeAccurate, DimAccuracy},
		{ModeThorough, DimCompleteness},
		{ModeCheap, DimCost},
		{ModeSimple, DimComplexity},
	}
	for _, tt := range tests {
		w := WeightsFor(tt.mode)
		if w.Get(tt.dim) != 0.4 {
			t.Errorf("mode %s should weight %s at 0.4, got %g", tt.mode, tt.dim, w.Get(tt.dim))
		}
	}
}

func scoringCandidate(pattern string, timeMs, cost, complexity, accuracy, completeness float64) Candidate {
	return Candidate{
		ID:             profile.PatternID{Tool: "web_search", Capability: "asset_query", Pattern: pattern},
		TimeEstimateMs: timeMs,
		CostEstimate:   cost,
		Complexity:     complexity,
		Accuracy:       accuracy,
		Completeness:   completeness,
	}
}

func TestScore_FastModePrefersFastCandidate(t *testing.T) {
	t.Parallel()

	fast := scoringCandidate("quick_lookup", 120, 0.01, 0.1, 0.6, 0.4)
	slow := scoringCandidate("deep_crawl", 45000, 0.01, 0.1, 0.6, 0.4)

	ranked := Score([]Candidate{slow, fast}, ModeFast)
	if len(ranked) != 2 {
		t.Fatalf("got %d scored candidates", len(ranked))
	}
	if ranked[0].Candidate.ID.Pattern != "quick_lookup" {
		t.Errorf("fast mode should rank the fast pattern first, got %s", ranked[0].Candidate.ID)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Error("ranking should be descending by score")
	}
}

func TestScore_ContributionsAndJustification(t *testing.T) {
	t.Parallel()

	cand := scoringCandidate("quick_lookup", 120, 0.01, 0.1, 0.6, 0.4)
	ranked := Score([]Candidate{cand}, ModeFast)

	sc := ranked[0]
	var sum float64
	for _, c := range sc.Contributions {
		sum += c.Weighted
	}
	if math.Abs(sum-sc.Score) > 1e-9 {
		t.Errorf("contributions sum %g != score %g", sum, sc.Score)
	}
	for i := 1; i < len(sc.Contributions); i++ {
		if sc.Contributions[i].Weighted > sc.Contributions[i-1].Weighted {
			t.Error("contributions should be sorted descending")
		}
	}
	if !strings.Contains(sc.Justification, sc.Contributions[0].Dimension) {
		t.Errorf("justification %q should name the top contributor %s", sc.Justification, sc.Contributions[0].Dimension)
	}
	if !strings.Contains(sc.Justification, string(ModeFast)) {
		t.Errorf("justification %q should name the preference mode", sc.Justification)
	}
}

func TestScore_DeterministicTieBreak(t *testing.T) {
	t.Parallel()

	a := scoringCandidate("alpha", 120, 0.01, 0.1, 0.6, 0.4)
	b := scoringCandidate("beta", 120, 0.01, 0.1, 0.6, 0.4)

	for i := 0; i < 5; i++ {
		ranked := Score([]Candidate{b, a}, ModeBalanced)
		if ranked[0].Candidate.ID.Pattern != "alpha" {
			t.Fatalf("equal scores should rank by identity, got %s first", ranked[0].Candidate.ID)
		}
	}
}
