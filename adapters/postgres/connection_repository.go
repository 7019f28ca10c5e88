package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
	"lifeconnect/ports"

	"github.com/jmoiron/sqlx"
)

// ConnectionRepositoryImpl implements ConnectionRepository for PostgreSQL.
type ConnectionRepositoryImpl struct {
	db *sqlx.DB
}

// NewConnectionRepository creates a new PostgreSQL connection repository.
func NewConnectionRepository(db *sqlx.DB) ports.ConnectionRepository {
	return &ConnectionRepositoryImpl{db: db}
}

// ReplaceForUser supersedes the user's previous batch inside one transaction:
// delete then insert, so readers never observe a mixed batch and a failed run
// leaves the old batch intact.
func (r *ConnectionRepositoryImpl) ReplaceForUser(ctx context.Context, userID core.UserID, batch []connection.LifeConnection) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM life_connections WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, c := range batch {
		metricsJSON, err := json.Marshal(c.Metrics)
		if err != nil {
			return fmt.Errorf("failed to marshal connection metrics: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO life_connections (
				id, user_id,
				domain_a_type, domain_a_metric, domain_b_type, domain_b_metric,
				direction, strength, metrics,
				title, description, recommendation,
				detected_at, expires_at, dismissed, rating
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			c.ID, c.UserID,
			c.DomainA.Type, c.DomainA.Metric, c.DomainB.Type, c.DomainB.Metric,
			c.Direction, c.Strength, metricsJSON,
			c.Title, c.Description, c.Recommendation,
			c.DetectedAt, c.ExpiresAt, c.Dismissed, c.Rating)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListForUser reads the current batch with filters and cursor pagination,
// ordered by (detected_at DESC, id).
func (r *ConnectionRepositoryImpl) ListForUser(ctx context.Context, userID core.UserID, filter connection.ListFilter, cursor *connection.Cursor, limit int) ([]connection.LifeConnection, *connection.Cursor, error) {
	query := `
		SELECT id, user_id,
			   domain_a_type, domain_a_metric, domain_b_type, domain_b_metric,
			   direction, strength, metrics,
			   title, description, recommendation,
			   detected_at, expires_at, dismissed, rating
		FROM life_connections
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Strength != nil {
		args = append(args, *filter.Strength)
		query += fmt.Sprintf(" AND strength = $%d", len(args))
	}
	if filter.Direction != nil {
		args = append(args, *filter.Direction)
		query += fmt.Sprintf(" AND direction = $%d", len(args))
	}
	if filter.Dismissed != nil {
		args = append(args, *filter.Dismissed)
		query += fmt.Sprintf(" AND dismissed = $%d", len(args))
	}
	if filter.Domain != nil {
		args = append(args, *filter.Domain)
		query += fmt.Sprintf(" AND (domain_a_type = $%d OR domain_b_type = $%d)", len(args), len(args))
	}
	if cursor != nil {
		args = append(args, cursor.DetectedAt, cursor.ID)
		query += fmt.Sprintf(" AND (detected_at < $%d OR (detected_at = $%d AND id > $%d))",
			len(args)-1, len(args)-1, len(args))
	}

	query += " ORDER BY detected_at DESC, id ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var out []connection.LifeConnection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *connection.Cursor
	if limit > 0 && len(out) == limit {
		last := out[len(out)-1]
		next = &connection.Cursor{DetectedAt: last.DetectedAt, ID: last.ID}
	}
	return out, next, nil
}

// SetDismissed flips the dismissed flag on one connection.
func (r *ConnectionRepositoryImpl) SetDismissed(ctx context.Context, userID core.UserID, id core.ConnectionID, dismissed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE life_connections SET dismissed = $1 WHERE id = $2 AND user_id = $3`,
		dismissed, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// SetRating records the user's usefulness rating on one connection.
func (r *ConnectionRepositoryImpl) SetRating(ctx context.Context, userID core.UserID, id core.ConnectionID, rating int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE life_connections SET rating = $1 WHERE id = $2 AND user_id = $3`,
		rating, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id core.ConnectionID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %s", core.ErrConnectionNotFound, id)
	}
	return nil
}

func scanConnection(rows *sql.Rows) (connection.LifeConnection, error) {
	var (
		c            connection.LifeConnection
		metricsJSON  []byte
		rating       sql.NullInt64
		aType, bType string
	)
	err := rows.Scan(
		&c.ID, &c.UserID,
		&aType, &c.DomainA.Metric, &bType, &c.DomainB.Metric,
		&c.Direction, &c.Strength, &metricsJSON,
		&c.Title, &c.Description, &c.Recommendation,
		&c.DetectedAt, &c.ExpiresAt, &c.Dismissed, &rating)
	if err != nil {
		return c, err
	}
	c.DomainA.Type = series.DomainType(aType)
	c.DomainB.Type = series.DomainType(bType)
	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &c.Metrics); err != nil {
			return c, fmt.Errorf("failed to unmarshal connection metrics: %w", err)
		}
	}
	if rating.Valid {
		v := int(rating.Int64)
		c.Rating = &v
	}
	return c, nil
}
