package core

import (
	"testing"
	"time"
)

// TestTimestampOrdering verifies Before/After/Equal delegate to the wrapped
// instant.
func TestTimestampOrdering(t *testing.T) {
	earlier := NewTimestamp(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	later := NewTimestamp(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	if !earlier.Before(later) || later.Before(earlier) {
		t.Error("Before should follow the wrapped instants")
	}
	if !later.After(earlier) || earlier.After(later) {
		t.Error("After should follow the wrapped instants")
	}
	if !earlier.Equal(earlier) || earlier.Equal(later) {
		t.Error("Equal should follow the wrapped instants")
	}
	if earlier.IsZero() {
		t.Error("A set timestamp is not zero")
	}
	var zero Timestamp
	if !zero.IsZero() {
		t.Error("The zero Timestamp should report IsZero")
	}
}

// TestTimestampScanValue verifies the database round trip.
func TestTimestampScanValue(t *testing.T) {
	at := time.Date(2025, 6, 15, 12, 30, 45, 123456789, time.UTC)

	v, err := NewTimestamp(at).Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	got, ok := v.(time.Time)
	if !ok || !got.Equal(at) {
		t.Fatalf("Value should yield the wrapped time.Time, got %v", v)
	}

	var ts Timestamp
	if err := ts.Scan(at); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !ts.Time().Equal(at) {
		t.Errorf("Scan should wrap the driver time, got %v", ts.Time())
	}
	if err := ts.Scan("2025-06-15"); err == nil {
		t.Error("Scanning a non-time value should fail")
	}
}

// TestDayOf_CollapsesSameCalendarDay verifies all timestamps from one UTC day
// map to the same grid point.
func TestDayOf_CollapsesSameCalendarDay(t *testing.T) {
	morning := time.Date(2025, 3, 10, 7, 15, 0, 0, time.UTC)
	night := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)

	if !DayOf(morning).Equal(DayOf(night)) {
		t.Errorf("Expected same day for %v and %v", morning, night)
	}

	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !DayOf(morning).Equal(want) {
		t.Errorf("Expected %v, got %v", want, DayOf(morning))
	}
}

// TestDayOf_NormalizesTimezones verifies non-UTC timestamps are converted
// before truncation.
func TestDayOf_NormalizesTimezones(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 3am on Mar 11 in UTC+10 is 5pm on Mar 10 UTC.
	local := time.Date(2025, 3, 11, 3, 0, 0, 0, loc)

	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := DayOf(local); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if !IsWeekend(saturday) {
		t.Error("Saturday should be weekend")
	}
	if !IsWeekend(sunday) {
		t.Error("Sunday should be weekend")
	}
	if IsWeekend(monday) {
		t.Error("Monday should not be weekend")
	}
}

// TestNewLookbackWindow verifies the window spans exactly lookbackDays
// calendar days ending on the day of now.
func TestNewLookbackWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	w := NewLookbackWindow(now, 90)

	if w.Len() != 90 {
		t.Errorf("Expected 90 days, got %d", w.Len())
	}
	if !w.End.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Window should end on the day of now, got %v", w.End)
	}
	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Error("Window should contain both endpoints")
	}
	if w.Contains(w.Start.AddDate(0, 0, -1)) {
		t.Error("Window should not contain the day before Start")
	}
	if w.Contains(w.End.AddDate(0, 0, 1)) {
		t.Error("Window should not contain the day after End")
	}

	days := w.Days()
	if len(days) != 90 {
		t.Fatalf("Expected 90 enumerated days, got %d", len(days))
	}
	if !days[0].Equal(w.Start) || !days[len(days)-1].Equal(w.End) {
		t.Error("Enumerated days should run from Start to End")
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			t.Fatalf("Days not consecutive at index %d", i)
		}
	}
}
