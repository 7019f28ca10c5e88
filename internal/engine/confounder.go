package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"lifeconnect/adapters/stats"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
)

// confounder is one known broad driver that may spuriously explain a pair.
type confounder struct {
	name string
	// valuesOn returns the driver's value for each day; ok is false when the
	// driver does not cover every aligned day.
	valuesOn func(days []time.Time) ([]float64, bool)
}

// weekendConfounder is always available: weekday/weekend cycles drive many
// behavioral signals on both legs at once.
func weekendConfounder() confounder {
	return confounder{
		name: "weekend effect",
		valuesOn: func(days []time.Time) ([]float64, bool) {
			vals := make([]float64, len(days))
			for i, d := range days {
				if core.IsWeekend(d) {
					vals[i] = 1
				}
			}
			return vals, true
		},
	}
}

// domainConfounder exposes a pre-identified high-strength domain series as a
// driver. Only applies when the series covers every aligned day.
func domainConfounder(s series.Series) confounder {
	return confounder{
		name: s.Key.String(),
		valuesOn: func(days []time.Time) ([]float64, bool) {
			vals := make([]float64, len(days))
			for i, d := range days {
				v, ok := s.ValueOn(d)
				if !ok {
					return nil, false
				}
				vals[i] = v
			}
			return vals, true
		},
	}
}

// confounderController recomputes partial associations for pairs whose raw
// relationship might be explained by a known driver.
type confounderController struct {
	confounders []confounder
	// gate is the minimum |r| each leg must show against a driver before
	// control kicks in.
	gate float64
	// survivalFraction is the share of the raw magnitude the partial
	// coefficient must retain (with unchanged sign) to survive control.
	survivalFraction float64
}

func newConfounderController(gate, survivalFraction float64, extra []series.Series) *confounderController {
	cc := &confounderController{
		confounders:      []confounder{weekendConfounder()},
		gate:             gate,
		survivalFraction: survivalFraction,
	}
	for _, s := range extra {
		cc.confounders = append(cc.confounders, domainConfounder(s))
	}
	return cc
}

// apply gathers every driver correlating nontrivially with both legs and
// recomputes the pair's association controlling for all of them at once.
// Pairs are demoted in ranking when control fails, never silently dropped.
// Pairs no driver touches count as robust.
func (cc *confounderController) apply(f *finding) {
	f.survives = true

	var (
		names    []string
		controls [][]float64
	)
	for _, c := range cc.confounders {
		if c.name == f.a.Key.String() || c.name == f.b.Key.String() {
			// A driver never controls a pair it is part of.
			continue
		}
		z, ok := c.valuesOn(f.aligned.Days)
		if !ok {
			continue
		}

		rxz, err := stats.Pearson(f.aligned.XS, z)
		if err != nil {
			continue
		}
		ryz, err := stats.Pearson(f.aligned.YS, z)
		if err != nil {
			continue
		}
		if math.Abs(rxz) < cc.gate || math.Abs(ryz) < cc.gate {
			continue
		}
		names = append(names, c.name)
		controls = append(controls, z)
	}
	if len(controls) == 0 {
		return
	}

	label := strings.Join(names, " and ")
	f.controlled = true

	partial, err := stats.PartialPearsonMulti(f.aligned.XS, f.aligned.YS, controls)
	if err != nil {
		// Degenerate once the drivers are removed: nothing left of the
		// relationship, so it does not survive.
		f.survives = false
		f.partial = 0
		f.confounderNote = fmt.Sprintf("controlling for %s leaves no independent relationship", label)
		return
	}

	raw := f.result.Coefficient
	sameSign := (partial >= 0) == (raw >= 0)
	retained := math.Abs(partial) >= cc.survivalFraction*math.Abs(raw)

	f.partial = partial
	f.survives = sameSign && retained
	f.confounderNote = fmt.Sprintf(
		"controlled for %s: partial r=%.3f vs raw r=%.3f (%.0f%% retained)",
		label, partial, raw, 100*math.Abs(partial)/math.Max(math.Abs(raw), 1e-12))
}
