package engine

import (
	"sort"

	"lifeconnect/adapters/stats"
	"lifeconnect/domain/series"
)

// finding accumulates everything the pipeline learns about one candidate pair.
type finding struct {
	a, b    series.Series
	aligned series.AlignedPair
	result  stats.Result

	// Confounder control
	controlled     bool
	survives       bool
	partial        float64
	confounderNote string

	// Time-lag scan
	lagScanned     bool
	bestLag        int
	lagCoefficient float64
}

func (f *finding) pairKey() string {
	return series.PairKey(f.a.Key, f.b.Key)
}

// enumeratePairs produces every unordered two-element combination of the
// surviving keys in lexicographic order. Same-metric pairs across domains are
// allowed; identical keys cannot occur since the map has one entry per key.
func enumeratePairs(byKey map[series.Key]series.Series) [][2]series.Series {
	keys := make([]series.Key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	pairs := make([][2]series.Series, 0, len(keys)*(len(keys)-1)/2)
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			pairs = append(pairs, [2]series.Series{byKey[keys[i]], byKey[keys[j]]})
		}
	}
	return pairs
}
