package postgres

import (
	"context"

	"lifeconnect/domain/core"
	"lifeconnect/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ObservationSourceImpl reads a user's raw per-domain records from PostgreSQL.
// All queries are read-only; the engine never mutates these collections.
type ObservationSourceImpl struct {
	db *sqlx.DB
}

// NewObservationSource creates a PostgreSQL observation source.
func NewObservationSource(db *sqlx.DB) ports.ObservationSource {
	return &ObservationSourceImpl{db: db}
}

// HealthSamples returns raw health readings in the window.
func (s *ObservationSourceImpl) HealthSamples(ctx context.Context, userID core.UserID, window core.Window) ([]ports.HealthSample, error) {
	var out []ports.HealthSample
	err := s.db.SelectContext(ctx, &out, `
		SELECT user_id, metric_type, value, recorded_at
		FROM health_samples
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at < $3 + INTERVAL '1 day'
		ORDER BY recorded_at ASC
	`, userID, window.Start, window.End)
	return out, err
}

// LocationVisits returns raw categorized place visits in the window.
func (s *ObservationSourceImpl) LocationVisits(ctx context.Context, userID core.UserID, window core.Window) ([]ports.LocationVisit, error) {
	var out []ports.LocationVisit
	err := s.db.SelectContext(ctx, &out, `
		SELECT user_id, category, arrived_at
		FROM location_visits
		WHERE user_id = $1 AND arrived_at >= $2 AND arrived_at < $3 + INTERVAL '1 day'
		ORDER BY arrived_at ASC
	`, userID, window.Start, window.End)
	return out, err
}

// CalendarEvents returns calendar-derived events in the window.
func (s *ObservationSourceImpl) CalendarEvents(ctx context.Context, userID core.UserID, window core.Window) ([]ports.CalendarEvent, error) {
	var out []ports.CalendarEvent
	err := s.db.SelectContext(ctx, &out, `
		SELECT user_id, category, starts_at
		FROM calendar_events
		WHERE user_id = $1 AND starts_at >= $2 AND starts_at < $3 + INTERVAL '1 day'
		ORDER BY starts_at ASC
	`, userID, window.Start, window.End)
	return out, err
}

// VoiceEntries returns voice/diary items with their topic and emotion
// annotations in the window.
func (s *ObservationSourceImpl) VoiceEntries(ctx context.Context, userID core.UserID, window core.Window) ([]ports.VoiceEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, topics, emotions, created_at
		FROM voice_entries
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3 + INTERVAL '1 day'
		ORDER BY created_at ASC
	`, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.VoiceEntry
	for rows.Next() {
		var e ports.VoiceEntry
		if err := rows.Scan(&e.UserID, pq.Array(&e.Topics), pq.Array(&e.Emotions), &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
