package extract

import (
	"sort"
	"time"

	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
	"lifeconnect/ports"
)

// Continuous health metrics aggregate differently per day: gauges keep the
// latest reading, accumulators sum.
type healthAggregation int

const (
	aggLatest healthAggregation = iota
	aggSum
)

// healthAggregationFor maps known metric types to their daily aggregation.
// Unknown metrics default to latest-wins, the safe choice for gauges.
func healthAggregationFor(metricType string) healthAggregation {
	switch metricType {
	case "step_count", "active_minutes", "calories_burned":
		return aggSum
	default:
		return aggLatest
	}
}

// healthSeries turns raw health samples into one continuous series per metric
// type. One observation per calendar day; days without samples stay absent.
func healthSeries(samples []ports.HealthSample) map[series.Key]series.Series {
	type daily struct {
		sum    float64
		latest float64
		at     time.Time
	}
	byMetric := make(map[string]map[time.Time]*daily)
	for _, s := range samples {
		day := core.DayOf(s.RecordedAt)
		if byMetric[s.MetricType] == nil {
			byMetric[s.MetricType] = make(map[time.Time]*daily)
		}
		d := byMetric[s.MetricType][day]
		if d == nil {
			d = &daily{}
			byMetric[s.MetricType][day] = d
		}
		d.sum += s.Value
		if s.RecordedAt.After(d.at) {
			d.at = s.RecordedAt
			d.latest = s.Value
		}
	}

	out := make(map[series.Key]series.Series, len(byMetric))
	for metric, days := range byMetric {
		agg := healthAggregationFor(metric)
		points := make([]series.Observation, 0, len(days))
		for day, d := range days {
			v := d.latest
			if agg == aggSum {
				v = d.sum
			}
			points = append(points, series.Observation{Day: day, Value: v})
		}
		key := series.Key{Domain: series.DomainHealth, Metric: metric}
		out[key] = series.New(key, series.KindContinuous, points)
	}
	return out
}

// presenceSeries builds a dense binary series over the window: 1 on days with
// at least one record for the category, 0 otherwise. Presence is a count-like
// metric, so zero days are valid observations, not gaps.
func presenceSeries(domain series.DomainType, metric string, recordDays []time.Time, window core.Window) series.Series {
	present := make(map[time.Time]bool, len(recordDays))
	for _, d := range recordDays {
		present[core.DayOf(d)] = true
	}
	points := make([]series.Observation, 0, window.Len())
	for _, day := range window.Days() {
		v := 0.0
		if present[day] {
			v = 1.0
		}
		points = append(points, series.Observation{Day: day, Value: v})
	}
	key := series.Key{Domain: domain, Metric: metric}
	return series.New(key, series.KindBinary, points)
}

// countSeries builds a count series over the observed days only: the number
// of records carrying the tag on each day the underlying collection has any
// record at all. Zero counts on observed days are valid observations; days
// with no records remain gaps, so a rarely-used collection yields a short
// series that the sample-size floor can drop.
func countSeries(domain series.DomainType, metric string, tagDays []time.Time, observedDays map[time.Time]bool) series.Series {
	counts := make(map[time.Time]int, len(tagDays))
	for _, d := range tagDays {
		counts[core.DayOf(d)]++
	}
	points := make([]series.Observation, 0, len(observedDays))
	for day := range observedDays {
		points = append(points, series.Observation{Day: day, Value: float64(counts[day])})
	}
	key := series.Key{Domain: domain, Metric: metric}
	return series.New(key, series.KindCount, points)
}

// eventSeries merges location visits and calendar events into per-category
// presence series under the event domain.
func eventSeries(visits []ports.LocationVisit, events []ports.CalendarEvent, window core.Window) map[series.Key]series.Series {
	byCategory := make(map[string][]time.Time)
	for _, v := range visits {
		byCategory[v.Category] = append(byCategory[v.Category], v.ArrivedAt)
	}
	for _, e := range events {
		byCategory[e.Category] = append(byCategory[e.Category], e.StartsAt)
	}

	out := make(map[series.Key]series.Series, len(byCategory))
	for category, days := range byCategory {
		s := presenceSeries(series.DomainEvent, category, days, window)
		out[s.Key] = s
	}
	return out
}

// voiceObservedDays collects the days on which the user recorded anything at
// all; topic and emotion counts are only meaningful on those days.
func voiceObservedDays(entries []ports.VoiceEntry) map[time.Time]bool {
	observed := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		observed[core.DayOf(e.CreatedAt)] = true
	}
	return observed
}

// topicSeries builds per-topic daily counts from voice/diary entries.
func topicSeries(entries []ports.VoiceEntry) map[series.Key]series.Series {
	observed := voiceObservedDays(entries)
	byTopic := make(map[string][]time.Time)
	for _, e := range entries {
		for _, topic := range dedupe(e.Topics) {
			byTopic[topic] = append(byTopic[topic], e.CreatedAt)
		}
	}

	out := make(map[series.Key]series.Series, len(byTopic))
	for topic, days := range byTopic {
		s := countSeries(series.DomainTopic, topic, days, observed)
		out[s.Key] = s
	}
	return out
}

// emotionSeries builds per-emotion daily detection counts.
func emotionSeries(entries []ports.VoiceEntry) map[series.Key]series.Series {
	observed := voiceObservedDays(entries)
	byEmotion := make(map[string][]time.Time)
	for _, e := range entries {
		for _, emotion := range dedupe(e.Emotions) {
			byEmotion[emotion] = append(byEmotion[emotion], e.CreatedAt)
		}
	}

	out := make(map[series.Key]series.Series, len(byEmotion))
	for emotion, days := range byEmotion {
		s := countSeries(series.DomainEmotion, emotion, days, observed)
		out[s.Key] = s
	}
	return out
}

// dedupe removes duplicate tags from a single entry so a repeated annotation
// does not double-count one record.
func dedupe(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
