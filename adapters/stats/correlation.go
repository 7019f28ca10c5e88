package stats

import (
	"math"

	"lifeconnect/domain/core"
	"lifeconnect/domain/series"

	"gonum.org/v1/gonum/stat/distuv"
)

// Test names the statistic chosen for a pair's variable types.
type Test string

const (
	TestPearson       Test = "pearson"
	TestPointBiserial Test = "point_biserial"
	TestPhi           Test = "phi"
)

// Result holds the association statistic for one aligned pair.
type Result struct {
	Test        Test    `json:"test"`
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"pValue"`
	EffectSize  float64 `json:"effectSize"`
	SampleSize  int     `json:"sampleSize"`
}

// SelectTest picks the statistic family from the two legs' value kinds.
// Point-biserial and phi both reduce to the product-moment computation over
// 0/1-coded series; the distinction is kept for reporting.
func SelectTest(kindA, kindB series.ValueKind) Test {
	aBinary := kindA == series.KindBinary
	bBinary := kindB == series.KindBinary
	switch {
	case aBinary && bBinary:
		return TestPhi
	case aBinary || bBinary:
		return TestPointBiserial
	default:
		return TestPearson
	}
}

// Correlate computes the coefficient, two-sided p-value, and effect size for
// an aligned pair. Degenerate inputs (zero variance on either leg) return
// core.ErrDegenerateSeries rather than NaN.
func Correlate(pair series.AlignedPair) (Result, error) {
	r, err := Pearson(pair.XS, pair.YS)
	if err != nil {
		return Result{}, err
	}
	n := pair.N()
	return Result{
		Test:        SelectTest(pair.KindA, pair.KindB),
		Coefficient: r,
		PValue:      PValueFromR(r, n),
		EffectSize:  CohensD(r),
		SampleSize:  n,
	}, nil
}

// Pearson computes the product-moment correlation coefficient, clamped to
// [-1, 1]. Zero-variance legs are degenerate.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, core.ErrSeriesMismatch
	}
	if len(x) < 3 {
		return 0, core.ErrInsufficientOverlap
	}

	n := float64(len(x))
	sumX, sumY := 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	numerator := 0.0
	sumXX, sumYY := 0.0, 0.0
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		sumXX += dx * dx
		sumYY += dy * dy
	}

	if sumXX == 0 || sumYY == 0 {
		return 0, core.ErrDegenerateSeries
	}

	r := numerator / math.Sqrt(sumXX*sumYY)
	return Clamp(r), nil
}

// PValueFromR converts a coefficient to a two-sided p-value under the null of
// no association, via the t statistic r*sqrt((n-2)/(1-r^2)) on n-2 degrees of
// freedom.
func PValueFromR(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	df := float64(n - 2)
	denom := 1 - r*r
	if denom <= 0 {
		// |r| == 1: perfectly determined, vanishing p-value.
		return 0
	}
	t := math.Abs(r) * math.Sqrt(df/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(t))
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// maxEffectSize caps |d| so a perfect coefficient stays finite and
// JSON-serializable.
const maxEffectSize = 10.0

// CohensD derives a standardized mean-difference analogue from a coefficient:
// d = 2r / sqrt(1 - r^2). Sample-size independent, sign-preserving.
func CohensD(r float64) float64 {
	denom := 1 - r*r
	if denom <= 0 {
		if r < 0 {
			return -maxEffectSize
		}
		return maxEffectSize
	}
	d := 2 * r / math.Sqrt(denom)
	if d > maxEffectSize {
		return maxEffectSize
	}
	if d < -maxEffectSize {
		return -maxEffectSize
	}
	return d
}

// Clamp bounds a coefficient to [-1, 1] against floating point drift.
func Clamp(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
