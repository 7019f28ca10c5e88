package engine

import (
	"math"
	"sort"
)

// passesThresholds applies the conjunctive significance gate: sample size,
// p-value, and effect size must all pass; failing any one excludes the pair.
func passesThresholds(f *finding, minSampleSize int, maxPValue, minEffectSize float64) bool {
	if f.result.SampleSize < minSampleSize {
		return false
	}
	if f.result.PValue > maxPValue {
		return false
	}
	if math.Abs(f.result.EffectSize) < minEffectSize {
		return false
	}
	return true
}

// rankFindings orders survivors for output: confounder-robust findings rank
// above equally-strong non-robust ones, then by effect magnitude, with the
// deterministic pair key breaking exact ties.
func rankFindings(findings []*finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		fi, fj := findings[i], findings[j]
		if fi.survives != fj.survives {
			return fi.survives
		}
		ei := math.Abs(fi.result.EffectSize)
		ej := math.Abs(fj.result.EffectSize)
		if ei != ej {
			return ei > ej
		}
		return fi.pairKey() < fj.pairKey()
	})
}
