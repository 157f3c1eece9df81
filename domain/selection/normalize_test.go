package selection

import (
	"math"
	"testing"
)

func TestNormalizeTime_Bounds(t *testing.T) {
	t.Parallel()

	if got := NormalizeTime(TimeBoundMinMs); got != 1.0 {
		t.Errorf("NormalizeTime(min) = %g, want 1.0", got)
	}
	if got := NormalizeTime(TimeBoundMaxMs); got != 0.0 {
		t.Errorf("NormalizeTime(max) = %g, want 0.0", got)
	}
	// Values outside the bounds clamp.
	if got := NormalizeTime(1); got != 1.0 {
		t.Errorf("NormalizeTime below min = %g, want 1.0", got)
	}
	if got := NormalizeTime(1e9); got != 0.0 {
		t.Errorf("NormalizeTime above max = %g, want 0.0", got)
	}
}

func TestNormalizeTime_Monotonic(t *testing.T) {
	t.Parallel()

	times := []float64{50, 120, 500, 2000, 10000, 60000}
	for i := 1; i < len(times); i++ {
		lo, hi := NormalizeTime(times[i-1]), NormalizeTime(times[i])
		if hi >= lo {
			t.Errorf("normalized time should strictly decrease: f(%g)=%g, f(%g)=%g", times[i-1], lo, times[i], hi)
		}
	}
}

func TestNormalizeCost_Monotonic(t *testing.T) {
	t.Parallel()

	costs := []float64{0, 0.01, 0.5, 2, 9, 10}
	for i := 1; i < len(costs); i++ {
		lo, hi := NormalizeCost(costs[i-1]), NormalizeCost(costs[i])
		if hi >= lo {
			t.Errorf("normalized cost should strictly decrease: f(%g)=%g, f(%g)=%g", costs[i-1], lo, costs[i], hi)
		}
	}
	if got := NormalizeCost(0); got != 1.0 {
		t.Errorf("NormalizeCost(0) = %g, want 1.0", got)
	}
	if got := NormalizeCost(10); got != 0.0 {
		t.Errorf("NormalizeCost(10) = %g, want 0.0", got)
	}
}

func TestDenormalize_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, ms := range []float64{50, 120, 777, 5000, 30000, 60000} {
		back := DenormalizeTime(NormalizeTime(ms))
		if math.Abs(back-ms)/ms > 1e-9 {
			t.Errorf("time round trip: %g -> %g", ms, back)
		}
	}
	for _, cost := range []float64{0, 0.25, 1, 5, 10} {
		back := DenormalizeCost(NormalizeCost(cost))
		if math.Abs(back-cost) > 1e-9 {
			t.Errorf("cost round trip: %g -> %g", cost, back)
		}
	}
}

func TestNormalize_Candidate(t *testing.T) {
	t.Parallel()

	features := Normalize(Candidate{
		TimeEstimateMs: 120,
		CostEstimate:   0.5,
		Complexity:     0.3,
		Accuracy:       0.9,
		Completeness:   1.2, // out of range raw value clamps
	})

	for _, dim := range Dimensions {
		v := features.Get(dim)
		if v < 0 || v > 1 {
			t.Errorf("feature %s = %g outside [0,1]", dim, v)
		}
	}
	if features.Complexity != 0.7 {
		t.Errorf("complexity feature = %g, want 0.7", features.Complexity)
	}
	if features.Completeness != 1.0 {
		t.Errorf("completeness feature = %g, want clamped 1.0", features.Completeness)
	}
	if higher := Normalize(Candidate{TimeEstimateMs: 120, Complexity: 0.8}); higher.Complexity >= features.Complexity {
		t.Error("higher raw complexity should normalize lower")
	}
}
