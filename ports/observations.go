package ports

import (
	"context"
	"time"

	"lifeconnect/domain/core"
)

// HealthSample is one raw health reading (sleep hours, step count, ...).
type HealthSample struct {
	UserID     core.UserID `db:"user_id"`
	MetricType string      `db:"metric_type"`
	Value      float64     `db:"value"`
	RecordedAt time.Time   `db:"recorded_at"`
}

// LocationVisit is one raw visit to a categorized place (gym, office, park).
type LocationVisit struct {
	UserID    core.UserID `db:"user_id"`
	Category  string      `db:"category"`
	ArrivedAt time.Time   `db:"arrived_at"`
}

// CalendarEvent is one calendar-derived event occurrence.
type CalendarEvent struct {
	UserID   core.UserID `db:"user_id"`
	Category string      `db:"category"`
	StartsAt time.Time   `db:"starts_at"`
}

// VoiceEntry is one voice/diary content item with its extracted annotations.
type VoiceEntry struct {
	UserID    core.UserID `db:"user_id"`
	Topics    []string    `db:"-"`
	Emotions  []string    `db:"-"`
	CreatedAt time.Time   `db:"created_at"`
}

// ObservationSource reads a user's raw per-domain records over a window.
// The engine treats it as read-only; a failing domain read skips that domain
// rather than aborting the run.
type ObservationSource interface {
	HealthSamples(ctx context.Context, userID core.UserID, window core.Window) ([]HealthSample, error)
	LocationVisits(ctx context.Context, userID core.UserID, window core.Window) ([]LocationVisit, error)
	CalendarEvents(ctx context.Context, userID core.UserID, window core.Window) ([]CalendarEvent, error)
	VoiceEntries(ctx context.Context, userID core.UserID, window core.Window) ([]VoiceEntry, error)
}

// UserRepository answers existence checks for invocation validation.
type UserRepository interface {
	Exists(ctx context.Context, userID core.UserID) (bool, error)
}
