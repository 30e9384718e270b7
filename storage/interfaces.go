package storage

import (
	"context"

	"github.com/poiesic/sift/core"
)

// HistoryRepository stores the queries a user has run.
// Implementations must be thread-safe and support concurrent access.
type HistoryRepository interface {
	// AddQuery records query as the most recent one.
	// Adding a query that is already stored moves it to the front instead of
	// duplicating it. Returns the stored entry.
	AddQuery(ctx context.Context, query string) (*core.HistoryEntry, error)

	// RecentQueries returns up to limit entries, most recent first.
	// A limit of zero returns every entry.
	// Returns ErrInvalidQuery for a negative limit.
	RecentQueries(ctx context.Context, limit int) ([]*core.HistoryEntry, error)

	// Clear removes every stored query.
	Clear(ctx context.Context) error

	// Close releases the repository's resources.
	Close() error
}
