package postgres

import (
	"context"

	"lifeconnect/domain/core"
	"lifeconnect/ports"

	"github.com/jmoiron/sqlx"
)

// UserRepositoryImpl implements UserRepository for PostgreSQL.
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Exists reports whether the user is known.
func (r *UserRepositoryImpl) Exists(ctx context.Context, userID core.UserID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, err
	}
	return exists, nil
}
