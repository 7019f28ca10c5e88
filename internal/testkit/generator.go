package testkit

import (
	"math/rand"
	"time"

	"lifeconnect/domain/core"
	"lifeconnect/ports"
)

// Generator seeds an InMemorySource with synthetic life-tracking patterns.
// Deterministic for a fixed seed, so scenario tests are reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator over a fixed seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// uniform returns a value uniformly drawn from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// MeetingSleepPattern writes the canonical delayed-stress fixture: on meeting
// days sleep lands in [5.5, 6.5] hours, on free days in [7.5, 8.5]. Meeting
// days alternate in blocks so weekday structure does not dominate.
func (g *Generator) MeetingSleepPattern(src *InMemorySource, userID core.UserID, start time.Time, meetingDays, freeDays int) {
	day := core.DayOf(start)
	total := meetingDays + freeDays
	placed := 0
	for i := 0; i < total; i++ {
		meeting := i%2 == 0 && placed < meetingDays
		if meeting {
			placed++
			src.AddCalendarEvents(ports.CalendarEvent{
				UserID:   userID,
				Category: "meeting",
				StartsAt: day.Add(10 * time.Hour),
			})
		}
		// Top up remaining meeting days once alternation runs out.
		if !meeting && total-i <= meetingDays-placed {
			meeting = true
			placed++
			src.AddCalendarEvents(ports.CalendarEvent{
				UserID:   userID,
				Category: "meeting",
				StartsAt: day.Add(10 * time.Hour),
			})
		}

		sleep := g.uniform(7.5, 8.5)
		if meeting {
			sleep = g.uniform(5.5, 6.5)
		}
		src.AddHealthSamples(ports.HealthSample{
			UserID:     userID,
			MetricType: "sleep_hours",
			Value:      sleep,
			RecordedAt: day.Add(7 * time.Hour),
		})
		day = day.AddDate(0, 0, 1)
	}
}

// WeekendDrivenPair writes two metrics that move together only because both
// follow the weekday/weekend cycle: step count is high on weekends, and gym
// visits happen on weekends. Controlling for the weekend should collapse the
// pair's association.
func (g *Generator) WeekendDrivenPair(src *InMemorySource, userID core.UserID, start time.Time, days int) {
	day := core.DayOf(start)
	for i := 0; i < days; i++ {
		steps := g.uniform(3000, 5000)
		if core.IsWeekend(day) {
			steps = g.uniform(11000, 13000)
			src.AddLocationVisits(ports.LocationVisit{
				UserID:    userID,
				Category:  "gym",
				ArrivedAt: day.Add(9 * time.Hour),
			})
		}
		src.AddHealthSamples(ports.HealthSample{
			UserID:     userID,
			MetricType: "step_count",
			Value:      steps,
			RecordedAt: day.Add(21 * time.Hour),
		})
		day = day.AddDate(0, 0, 1)
	}
}

// LaggedPattern writes a driver event whose effect shows up in a health
// metric lagDays later: deadline days predict short sleep after the lag.
func (g *Generator) LaggedPattern(src *InMemorySource, userID core.UserID, start time.Time, days, lagDays int) {
	day := core.DayOf(start)
	deadline := make(map[time.Time]bool)
	for i := 0; i < days; i++ {
		if i%3 == 0 {
			deadline[day] = true
			src.AddCalendarEvents(ports.CalendarEvent{
				UserID:   userID,
				Category: "deadline",
				StartsAt: day.Add(17 * time.Hour),
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	day = core.DayOf(start)
	for i := 0; i < days; i++ {
		sleep := g.uniform(7.6, 8.4)
		if deadline[day.AddDate(0, 0, -lagDays)] {
			sleep = g.uniform(5.6, 6.4)
		}
		src.AddHealthSamples(ports.HealthSample{
			UserID:     userID,
			MetricType: "sleep_hours",
			Value:      sleep,
			RecordedAt: day.Add(7 * time.Hour),
		})
		day = day.AddDate(0, 0, 1)
	}
}

// SparseDomain writes a topic that only fires a handful of days, below any
// sensible sample-size floor.
func (g *Generator) SparseDomain(src *InMemorySource, userID core.UserID, start time.Time, activeDays int) {
	day := core.DayOf(start)
	for i := 0; i < activeDays; i++ {
		src.AddVoiceEntries(ports.VoiceEntry{
			UserID:    userID,
			Topics:    []string{"gardening"},
			CreatedAt: day.Add(12 * time.Hour),
		})
		day = day.AddDate(0, 0, 7)
	}
}
