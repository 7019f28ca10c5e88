package series

import (
	"fmt"
	"sort"
	"time"

	"lifeconnect/domain/core"
)

// DomainType categorizes the origin of a behavioral signal.
type DomainType string

const (
	DomainHealth  DomainType = "health"
	DomainEvent   DomainType = "event"
	DomainTopic   DomainType = "topic"
	DomainEmotion DomainType = "emotion"
)

// ValueKind describes how a metric's daily values behave statistically.
// It drives test selection downstream: continuous pairs use Pearson,
// binary legs use the point-biserial / phi family.
type ValueKind string

const (
	KindContinuous ValueKind = "continuous"
	KindBinary     ValueKind = "binary"
	KindCount      ValueKind = "count"
)

// Key identifies one (domain, metric) time series for a user.
type Key struct {
	Domain DomainType `json:"domain"`
	Metric string     `json:"metric"`
}

// String renders the key as "domain:metric". Keys sort lexicographically on
// this form, which fixes the pair enumeration order across runs.
func (k Key) String() string {
	return string(k.Domain) + ":" + k.Metric
}

// Less imposes the canonical ordering between keys.
func (k Key) Less(other Key) bool {
	return k.String() < other.String()
}

// Observation is one (day, value) point for a key.
type Observation struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// Series is an ordered-by-day sequence of observations for one key over a
// lookback window. Missing days are genuine gaps: a day absent from Points
// means no observation, not zero.
type Series struct {
	Key    Key
	Kind   ValueKind
	Points []Observation
}

// New builds a series from unordered points, collapsing duplicate days
// (last write wins) and sorting ascending.
func New(key Key, kind ValueKind, points []Observation) Series {
	byDay := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byDay[core.DayOf(p.Day)] = p.Value
	}
	out := make([]Observation, 0, len(byDay))
	for day, v := range byDay {
		out = append(out, Observation{Day: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return Series{Key: key, Kind: kind, Points: out}
}

// Len returns the number of non-missing days.
func (s Series) Len() int {
	return len(s.Points)
}

// ValueOn returns the value for a day and whether it is present.
func (s Series) ValueOn(day time.Time) (float64, bool) {
	day = core.DayOf(day)
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Day.Before(day)
	})
	if i < len(s.Points) && s.Points[i].Day.Equal(day) {
		return s.Points[i].Value, true
	}
	return 0, false
}

// ActiveDays counts days with a nonzero value. For dense count/presence
// metrics this is the real support of the signal.
func (s Series) ActiveDays() int {
	n := 0
	for _, p := range s.Points {
		if p.Value != 0 {
			n++
		}
	}
	return n
}

// AlignedPair holds two series restricted to their shared dates, ready for
// correlation. XS[i] and YS[i] belong to the same day (Days[i]), possibly
// offset by a lag on the Y side.
type AlignedPair struct {
	A, B    Key
	KindA   ValueKind
	KindB   ValueKind
	Days    []time.Time
	XS, YS  []float64
	LagDays int
}

// N returns the overlap length.
func (p AlignedPair) N() int {
	return len(p.Days)
}

// Align intersects two series on their common dates.
func Align(a, b Series) AlignedPair {
	return AlignLagged(a, b, 0)
}

// AlignLagged matches a's value on day d with b's value on day d+lag.
// A lag of zero is the plain intersection; positive lags surface delayed
// effects of A on B.
func AlignLagged(a, b Series, lag int) AlignedPair {
	pair := AlignedPair{
		A:       a.Key,
		B:       b.Key,
		KindA:   a.Kind,
		KindB:   b.Kind,
		LagDays: lag,
	}
	for _, pt := range a.Points {
		shifted := pt.Day.AddDate(0, 0, lag)
		if bv, ok := b.ValueOn(shifted); ok {
			pair.Days = append(pair.Days, pt.Day)
			pair.XS = append(pair.XS, pt.Value)
			pair.YS = append(pair.YS, bv)
		}
	}
	return pair
}

// PairKey renders the canonical unordered identity of a pair, smaller key
// first, used for deterministic tie-breaking in ranking.
func PairKey(a, b Key) string {
	if b.Less(a) {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s", a, b)
}
