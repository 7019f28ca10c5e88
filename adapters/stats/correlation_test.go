package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	yPos := []float64{2, 4, 6, 8, 10}
	yNeg := []float64{10, 8, 6, 4, 2}

	r, err := Pearson(x, yPos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !almostEqual(r, 1.0, 1e-9) {
		t.Errorf("Expected r=1, got %f", r)
	}

	r, err = Pearson(x, yNeg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !almostEqual(r, -1.0, 1e-9) {
		t.Errorf("Expected r=-1, got %f", r)
	}
}

func TestPearson_KnownValue(t *testing.T) {
	// Hand-checked fixture: r = 12/sqrt(212) ≈ 0.8242.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 7}

	r, err := Pearson(x, y)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !almostEqual(r, 0.8242, 0.001) {
		t.Errorf("Expected r≈0.8242, got %f", r)
	}
}

func TestPearson_DegenerateInputs(t *testing.T) {
	constant := []float64{3, 3, 3, 3}
	varying := []float64{1, 2, 3, 4}

	if _, err := Pearson(constant, varying); !errors.Is(err, core.ErrDegenerateSeries) {
		t.Errorf("Zero-variance X should be degenerate, got %v", err)
	}
	if _, err := Pearson(varying, constant); !errors.Is(err, core.ErrDegenerateSeries) {
		t.Errorf("Zero-variance Y should be degenerate, got %v", err)
	}
	if _, err := Pearson([]float64{1, 2}, []float64{3, 4}); !errors.Is(err, core.ErrInsufficientOverlap) {
		t.Errorf("n<3 should be insufficient overlap, got %v", err)
	}
	if _, err := Pearson([]float64{1, 2, 3}, []float64{1, 2}); !errors.Is(err, core.ErrSeriesMismatch) {
		t.Errorf("Length mismatch should error, got %v", err)
	}
}

// TestPValueFromR_Behavior checks the p-value is monotone in |r| and n, and
// stays within [0, 1].
func TestPValueFromR_Behavior(t *testing.T) {
	if p := PValueFromR(0.9, 30); p >= PValueFromR(0.3, 30) {
		t.Error("Stronger coefficient should yield smaller p-value at fixed n")
	}
	if p := PValueFromR(0.5, 100); p >= PValueFromR(0.5, 10) {
		t.Error("Larger sample should yield smaller p-value at fixed r")
	}
	if p := PValueFromR(0.0, 50); !almostEqual(p, 1.0, 1e-9) {
		t.Errorf("r=0 should give p=1, got %f", p)
	}
	if p := PValueFromR(1.0, 50); p != 0 {
		t.Errorf("|r|=1 should give p=0, got %f", p)
	}
	if p := PValueFromR(0.5, 2); p != 1.0 {
		t.Errorf("n<3 should give p=1, got %f", p)
	}

	for _, r := range []float64{-0.99, -0.5, 0, 0.5, 0.99} {
		p := PValueFromR(r, 20)
		if p < 0 || p > 1 {
			t.Errorf("p-value out of bounds for r=%f: %f", r, p)
		}
	}

	// Symmetric in sign: two-sided test.
	if PValueFromR(0.6, 25) != PValueFromR(-0.6, 25) {
		t.Error("Two-sided p-value should ignore sign")
	}
}

func TestCohensD(t *testing.T) {
	// d = 2r/sqrt(1-r^2): r=0.6 -> 1.5.
	if d := CohensD(0.6); !almostEqual(d, 1.5, 1e-9) {
		t.Errorf("Expected d=1.5 for r=0.6, got %f", d)
	}
	if d := CohensD(-0.6); !almostEqual(d, -1.5, 1e-9) {
		t.Errorf("Sign should be preserved, got %f", d)
	}
	if d := CohensD(0); d != 0 {
		t.Errorf("r=0 should give d=0, got %f", d)
	}
	// Perfect coefficients stay finite.
	if d := CohensD(1.0); d != 10.0 {
		t.Errorf("r=1 should cap at 10, got %f", d)
	}
	if d := CohensD(-1.0); d != -10.0 {
		t.Errorf("r=-1 should cap at -10, got %f", d)
	}
}

func TestSelectTest(t *testing.T) {
	cases := []struct {
		kindA, kindB series.ValueKind
		want         Test
	}{
		{series.KindContinuous, series.KindContinuous, TestPearson},
		{series.KindContinuous, series.KindCount, TestPearson},
		{series.KindBinary, series.KindContinuous, TestPointBiserial},
		{series.KindCount, series.KindBinary, TestPointBiserial},
		{series.KindBinary, series.KindBinary, TestPhi},
	}
	for _, tc := range cases {
		if got := SelectTest(tc.kindA, tc.kindB); got != tc.want {
			t.Errorf("SelectTest(%s, %s) = %s, want %s", tc.kindA, tc.kindB, got, tc.want)
		}
	}
}

func TestCorrelate(t *testing.T) {
	pair := series.AlignedPair{
		A:     series.Key{Domain: series.DomainEvent, Metric: "meeting"},
		B:     series.Key{Domain: series.DomainHealth, Metric: "sleep_hours"},
		KindA: series.KindBinary,
		KindB: series.KindContinuous,
		XS:    []float64{1, 0, 1, 0, 1, 0, 1, 0},
		YS:    []float64{6.0, 8.1, 6.2, 7.9, 5.9, 8.0, 6.1, 8.2},
	}
	pair.Days = make([]time.Time, len(pair.XS))

	res, err := Correlate(pair)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Test != TestPointBiserial {
		t.Errorf("Expected point_biserial, got %s", res.Test)
	}
	if res.Coefficient >= 0 {
		t.Errorf("Meeting days should correlate negatively with sleep, got %f", res.Coefficient)
	}
	if res.SampleSize != 8 {
		t.Errorf("Expected n=8, got %d", res.SampleSize)
	}
	if res.PValue > 0.01 {
		t.Errorf("Near-perfect separation should be highly significant, got p=%f", res.PValue)
	}
	if math.Abs(res.EffectSize) < 1.0 {
		t.Errorf("Expected a large effect, got %f", res.EffectSize)
	}

	// Degenerate: one leg constant.
	flat := pair
	flat.YS = []float64{7, 7, 7, 7, 7, 7, 7, 7}
	if _, err := Correlate(flat); !errors.Is(err, core.ErrDegenerateSeries) {
		t.Errorf("Constant leg should be degenerate, got %v", err)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(1.0000001) != 1 {
		t.Error("Values above 1 should clamp to 1")
	}
	if Clamp(-1.0000001) != -1 {
		t.Error("Values below -1 should clamp to -1")
	}
	if Clamp(0.5) != 0.5 {
		t.Error("In-range values should pass through")
	}
}
