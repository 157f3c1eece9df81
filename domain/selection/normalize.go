package selection

import "math"

// Normalization bounds. Raw metrics are clamped into these ranges before
// mapping onto [0,1].
const (
	// TimeBoundMinMs and TimeBoundMaxMs bound the log-scaled time transform.
	TimeBoundMinMs = 50.0
	TimeBoundMaxMs = 60000.0

	// CostBoundMin and CostBoundMax bound the linear cost transform.
	CostBoundMin = 0.0
	CostBoundMax = 10.0
)

// Feature dimension names, in scoring order.
const (
	DimTime         = "time"
	DimCost         = "cost"
	DimComplexity   = "complexity"
	DimAccuracy     = "accuracy"
	DimCompleteness = "completeness"
)

// Dimensions lists every feature dimension in a fixed order.
var Dimensions = []string{DimTime, DimCost, DimComplexity, DimAccuracy, DimCompleteness}

// Features holds a candidate's metrics mapped onto a common [0,1] scale
// where 1.0 is always most desirable, regardless of the raw metric's
// natural direction.
type Features struct {
	Time         float64
	Cost         float64
	Complexity   float64
	Accuracy     float64
	Completeness float64
}

// Get returns the value for a dimension name.
func (f Features) Get(dim string) float64 {
	switch dim {
	case DimTime:
		return f.Time
	case DimCost:
		return f.Cost
	case DimComplexity:
		return f.Complexity
	case DimAccuracy:
		return f.Accuracy
	case DimCompleteness:
		return f.Completeness
	default:
		return 0
	}
}

// Normalize maps a candidate's raw metrics to features.
func Normalize(c Candidate) Features {
	return Features{
		Time:         NormalizeTime(c.TimeEstimateMs),
		Cost:         NormalizeCost(c.CostEstimate),
		Complexity:   clamp01(1 - c.Complexity),
		Accuracy:     clamp01(c.Accuracy),
		Completeness: clamp01(c.Completeness),
	}
}

// NormalizeTime maps milliseconds onto [0,1] via an inverted log transform:
// faster is better, and the log keeps the sub-second range from being
// crushed by the minute range.
func NormalizeTime(ms float64) float64 {
	t := clamp(ms, TimeBoundMinMs, TimeBoundMaxMs)
	span := math.Log(TimeBoundMaxMs) - math.Log(TimeBoundMinMs)
	return clamp01(1 - (math.Log(t)-math.Log(TimeBoundMinMs))/span)
}

// DenormalizeTime inverts NormalizeTime for diagnostics.
func DenormalizeTime(score float64) float64 {
	s := clamp01(score)
	span := math.Log(TimeBoundMaxMs) - math.Log(TimeBoundMinMs)
	return math.Exp(math.Log(TimeBoundMinMs) + (1-s)*span)
}

// NormalizeCost maps dollars onto [0,1] via an inverted linear transform.
func NormalizeCost(cost float64) float64 {
	c := clamp(cost, CostBoundMin, CostBoundMax)
	return clamp01(1 - (c-CostBoundMin)/(CostBoundMax-CostBoundMin))
}

// DenormalizeCost inverts NormalizeCost for diagnostics.
func DenormalizeCost(score float64) float64 {
	s := clamp01(score)
	return CostBoundMin + (1-s)*(CostBoundMax-CostBoundMin)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
