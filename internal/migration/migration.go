package migration

import (
	"context"
	"fmt"

	"lifeconnect/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createUsersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create users table")
	}

	if err := r.createHealthSamplesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create health_samples table")
	}

	if err := r.createLocationVisitsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create location_visits table")
	}

	if err := r.createCalendarEventsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create calendar_events table")
	}

	if err := r.createVoiceEntriesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create voice_entries table")
	}

	if err := r.createLifeConnectionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create life_connections table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createUsersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			display_name VARCHAR(100),
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createHealthSamplesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS health_samples (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			metric_type VARCHAR(100) NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createLocationVisitsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS location_visits (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category VARCHAR(100) NOT NULL,
			arrived_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createCalendarEventsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS calendar_events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category VARCHAR(100) NOT NULL,
			starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createVoiceEntriesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS voice_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			topics TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
			emotions TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createLifeConnectionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS life_connections (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			domain_a_type VARCHAR(50) NOT NULL,
			domain_a_metric VARCHAR(100) NOT NULL,
			domain_b_type VARCHAR(50) NOT NULL,
			domain_b_metric VARCHAR(100) NOT NULL,
			direction VARCHAR(20) NOT NULL,
			strength VARCHAR(20) NOT NULL,
			metrics JSONB NOT NULL DEFAULT '{}',
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			detected_at TIMESTAMP WITH TIME ZONE NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			dismissed BOOLEAN NOT NULL DEFAULT false,
			rating INTEGER CHECK (rating >= 1 AND rating <= 5)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		// Raw observation indexes, window reads always filter by user + time
		"CREATE INDEX IF NOT EXISTS idx_health_samples_user_recorded ON health_samples(user_id, recorded_at)",
		"CREATE INDEX IF NOT EXISTS idx_health_samples_user_metric ON health_samples(user_id, metric_type, recorded_at)",
		"CREATE INDEX IF NOT EXISTS idx_location_visits_user_arrived ON location_visits(user_id, arrived_at)",
		"CREATE INDEX IF NOT EXISTS idx_calendar_events_user_starts ON calendar_events(user_id, starts_at)",
		"CREATE INDEX IF NOT EXISTS idx_voice_entries_user_created ON voice_entries(user_id, created_at)",

		// Connection list indexes
		"CREATE INDEX IF NOT EXISTS idx_connections_user_detected ON life_connections(user_id, detected_at DESC, id)",
		"CREATE INDEX IF NOT EXISTS idx_connections_user_strength ON life_connections(user_id, strength)",
		"CREATE INDEX IF NOT EXISTS idx_connections_user_dismissed ON life_connections(user_id, dismissed)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			fmt.Printf("Warning: failed to create index: %v\n", err)
		}
	}

	return nil
}
