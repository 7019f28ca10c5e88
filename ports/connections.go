package ports

import (
	"context"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
)

// ConnectionRepository persists and serves a user's connection batch.
type ConnectionRepository interface {
	// ReplaceForUser atomically supersedes the user's previous batch with the
	// given one. An empty batch clears the user's connections. Partial writes
	// never happen: either the whole batch commits or nothing does.
	ReplaceForUser(ctx context.Context, userID core.UserID, batch []connection.LifeConnection) error

	// ListForUser reads the current batch with optional filters and
	// cursor-based pagination. Returns the page and the cursor for the next
	// one (nil when exhausted).
	ListForUser(ctx context.Context, userID core.UserID, filter connection.ListFilter, cursor *connection.Cursor, limit int) ([]connection.LifeConnection, *connection.Cursor, error)

	// SetDismissed updates the dismissed flag on one of the user's
	// connections. Wraps core.ErrConnectionNotFound when no such connection
	// exists for the user.
	SetDismissed(ctx context.Context, userID core.UserID, id core.ConnectionID, dismissed bool) error

	// SetRating records a 1-5 usefulness rating on one of the user's
	// connections. Wraps core.ErrConnectionNotFound when no such connection
	// exists for the user.
	SetRating(ctx context.Context, userID core.UserID, id core.ConnectionID, rating int) error
}
