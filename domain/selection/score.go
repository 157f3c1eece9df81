package selection

import (
	"fmt"
	"sort"
)

// Weights maps feature dimensions to scoring weights. Every vector must sum
// to 1.0 within a small tolerance.
type Weights struct {
	Time         float64
	Cost         float64
	Complexity   float64
	Accuracy     float64
	Completeness float64
}

// Sum returns the total weight, for invariant checks.
func (w Weights) Sum() float64 {
	return w.Time + w.Cost + w.Complexity + w.Accuracy + w.Completeness
}

// Get returns the weight for a dimension name.
func (w Weights) Get(dim string) float64 {
	switch dim {
	case DimTime:
		return w.Time
	case DimCost:
		return w.Cost
	case DimComplexity:
		return w.Complexity
	case DimAccuracy:
		return w.Accuracy
	case DimCompleteness:
		return w.Completeness
	default:
		return 0
	}
}

// modeWeights gives the favored dimension 0.4 and the rest 0.15 each;
// balanced is uniform.
var modeWeights = map[Mode]Weights{
	ModeFast:     {Time: 0.4, Cost: 0.15, Complexity: 0.15, Accuracy: 0.15, Completeness: 0.15},
	ModeAccurate: {Time: 0.15, Cost: 0.15, Complexity: 0.15, Accuracy: 0.4, Completeness: 0.15},
	ModeThorough: {Time: 0.15, Cost: 0.15, Complexity: 0.15, Accuracy: 0.15, Completeness: 0.4},
	ModeCheap:    {Time: 0.15, Cost: 0.4, Complexity: 0.15, Accuracy: 0.15, Completeness: 0.15},
	ModeSimple:   {Time: 0.15, Cost: 0.15, Complexity: 0.4, Accuracy: 0.15, Completeness: 0.15},
	ModeBalanced: {Time: 0.2, Cost: 0.2, Complexity: 0.2, Accuracy: 0.2, Completeness: 0.2},
}

// WeightsFor returns the weight vector for a mode. Unknown modes get the
// balanced vector.
func WeightsFor(mode Mode) Weights {
	if w, ok := modeWeights[mode]; ok {
		return w
	}
	return modeWeights[ModeBalanced]
}

// Contribution is one dimension's weighted share of a total score.
type Contribution struct {
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
}

// ScoredCandidate pairs a candidate with its normalized features and the
// scalar score derived from them.
type ScoredCandidate struct {
	Candidate     Candidate
	Features      Features
	Contributions []Contribution // sorted descending by weighted share
	Score         float64
	Justification string
}

// Score normalizes each candidate, combines the features under the mode's
// weight vector, and returns the candidates ranked by descending score.
// Ties are broken by candidate identity so repeated runs with identical
// inputs produce identical rankings.
func Score(candidates []Candidate, mode Mode) []ScoredCandidate {
	weights := WeightsFor(mode)

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		features := Normalize(cand)

		contributions := make([]Contribution, 0, len(Dimensions))
		total := 0.0
		for _, dim := range Dimensions {
			c := Contribution{
				Dimension: dim,
				Value:     features.Get(dim),
				Weight:    weights.Get(dim),
			}
			c.Weighted = c.Value * c.Weight
			total += c.Weighted
			contributions = append(contributions, c)
		}
		sort.SliceStable(contributions, func(i, j int) bool {
			return contributions[i].Weighted > contributions[j].Weighted
		})

		scored = append(scored, ScoredCandidate{
			Candidate:     cand,
			Features:      features,
			Contributions: contributions,
			Score:         total,
			Justification: justify(cand, contributions, total, mode),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.ID.String() < scored[j].Candidate.ID.String()
	})
	return scored
}

// justify names the top two weighted contributors, which is usually all a
// human needs to sanity-check a ranking.
func justify(cand Candidate, contributions []Contribution, total float64, mode Mode) string {
	top := contributions
	if len(top) > 2 {
		top = top[:2]
	}
	switch len(top) {
	case 0:
		return fmt.Sprintf("%s scored %.2f under %s preference", cand.ID, total, mode)
	case 1:
		return fmt.Sprintf("%s scored %.2f under %s preference, led by %s (%.2f)",
			cand.ID, total, mode, top[0].Dimension, top[0].Weighted)
	default:
		return fmt.Sprintf("%s scored %.2f under %s preference, led by %s (%.2f) and %s (%.2f)",
			cand.ID, total, mode, top[0].Dimension, top[0].Weighted, top[1].Dimension, top[1].Weighted)
	}
}
