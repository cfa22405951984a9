package repository

import (
	"context"
	"time"

	"daybook/internal/domain/entity"
)

// Cursor is a position in the (created_at, id) total order of entries.
// Boundary seeds use ID 0 so every entry stamped exactly at At sorts after them.
type Cursor struct {
	At time.Time
	ID int64
}

// CursorOf returns the cursor positioned exactly at e.
func CursorOf(e *entity.Entry) Cursor {
	return Cursor{At: e.CreatedAt, ID: e.ID}
}

// SearchResult is one page of identifiers plus the size of the whole result set.
type SearchResult struct {
	IDs        []int64
	TotalCount int64
}

// SearchReader is the read side of the search index.
type SearchReader interface {
	// FindByCondition returns ids matching cond. Chronological conditions are
	// ordered ascending by (created_at, id); keyword conditions newest first.
	// ByID is not index-addressed and is rejected with entity.ErrInvalidCondition.
	FindByCondition(ctx context.Context, cond entity.Condition, offset, limit int) (SearchResult, error)
	// CursorForward returns ids at or after from, ascending by (created_at, id).
	CursorForward(ctx context.Context, from Cursor, offset, limit int) ([]int64, error)
	// CursorBackward returns ids strictly before until, descending by (created_at, id).
	CursorBackward(ctx context.Context, until Cursor, offset, limit int) ([]int64, error)
}

// SearchWriter keeps the search index in step with the record store.
type SearchWriter interface {
	// Index inserts or replaces the document for e.
	Index(ctx context.Context, e *entity.Entry) error
	// Remove deletes the document for id. Removing an unknown id is not an error.
	Remove(ctx context.Context, id int64) error
	// IDs returns every indexed id in ascending order.
	IDs(ctx context.Context) ([]int64, error)
}

// SearchIndex is the full search port.
type SearchIndex interface {
	SearchReader
	SearchWriter
}
