package engine

import (
	"math"

	"lifeconnect/adapters/stats"
	"lifeconnect/domain/series"
)

// lagEffectTolerance is the band within which two lags' effect sizes count as
// equal; the smaller lag wins since shorter-delay explanations are more
// parsimonious.
const lagEffectTolerance = 0.05

// scanLags tests whether A's value on day d predicts B's value on day d+k
// better than the zero-lag relationship, for k = 1..maxLagDays. The finding's
// zero-lag result is the baseline; a lag replaces it only with a significant
// result whose effect size clearly exceeds the incumbent's. The selected lag
// therefore never has a weaker effect than the (significant) zero-lag result.
func scanLags(f *finding, maxLagDays, minSampleSize int, maxPValue, minEffectSize float64) {
	f.lagScanned = true
	f.bestLag = 0
	f.lagCoefficient = f.result.Coefficient
	bestEffect := math.Abs(f.result.EffectSize)

	for k := 1; k <= maxLagDays; k++ {
		shifted := series.AlignLagged(f.a, f.b, k)
		if shifted.N() < minSampleSize {
			continue
		}
		res, err := stats.Correlate(shifted)
		if err != nil {
			continue
		}
		if res.PValue > maxPValue || math.Abs(res.EffectSize) < minEffectSize {
			continue
		}
		if math.Abs(res.EffectSize) > bestEffect+lagEffectTolerance {
			bestEffect = math.Abs(res.EffectSize)
			f.bestLag = k
			f.lagCoefficient = res.Coefficient
		}
	}
}
