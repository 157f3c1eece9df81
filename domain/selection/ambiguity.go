package selection

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the score gap below which a deterministic ranking
	// is treated as inconclusive.
	DefaultEpsilon = 0.08

	// minDimensionGap is the smallest per-dimension difference worth
	// asking the caller about; below it the generic question is used.
	minDimensionGap = 0.05
)

// Ambiguity is the outcome of comparing the top two ranked candidates.
type Ambiguity struct {
	IsAmbiguous        bool
	Gap                float64
	ClarifyingQuestion string
}

var dimensionQuestions = map[string]string{
	DimTime:         "These options differ mostly in speed. Should I favor the faster option (%s) or accept the slower one (%s) for its other strengths?",
	DimCost:         "These options differ mostly in cost. Should I favor the cheaper option (%s) or accept the pricier one (%s) for its other strengths?",
	DimComplexity:   "These options differ mostly in complexity. Should I favor the simpler option (%s) or the more involved one (%s)?",
	DimAccuracy:     "These options differ mostly in accuracy. Should I favor the more accurate option (%s) over the quicker-and-rougher one (%s)?",
	DimCompleteness: "These options differ mostly in completeness. Should I favor the more complete option (%s) over the lighter one (%s)?",
}

const genericQuestion = "The top options score almost identically. Should I prioritize speed or accuracy here?"

// DetectAmbiguity compares the top two ranked candidates. With fewer than
// two candidates the result is never ambiguous. When ambiguous, the
// clarifying question targets the dimension where the two differ most.
func DetectAmbiguity(ranked []ScoredCandidate, epsilon float64) Ambiguity {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	if len(ranked) < 2 {
		return Ambiguity{}
	}

	first, second := ranked[0], ranked[1]
	gap := math.Abs(first.Score - second.Score)
	if gap >= epsilon {
		return Ambiguity{Gap: gap}
	}

	bestDim := ""
	bestDiff := 0.0
	for _, dim := range Dimensions {
		diff := math.Abs(first.Features.Get(dim) - second.Features.Get(dim))
		if diff > bestDiff {
			bestDim = dim
			bestDiff = diff
		}
	}

	question := genericQuestion
	if bestDiff >= minDimensionGap {
		// Lead with the candidate that is stronger on the distinguishing
		// dimension so the question reads naturally.
		stronger, weaker := first, second
		if second.Features.Get(bestDim) > first.Features.Get(bestDim) {
			stronger, weaker = second, first
		}
		question = fmt.Sprintf(dimensionQuestions[bestDim], stronger.Candidate.ID, weaker.Candidate.ID)
	}

	return Ambiguity{
		IsAmbiguous:        true,
		Gap:                gap,
		ClarifyingQuestion: question,
	}
}
