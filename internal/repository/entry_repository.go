package repository

import (
	"context"

	"daybook/internal/domain/entity"
)

// EntryReader is the read side of the record store used for hydration.
type EntryReader interface {
	// Get returns (nil, nil) if the entry does not exist.
	Get(ctx context.Context, id int64) (*entity.Entry, error)
	// GetByIDs returns the entries that exist among ids, in no particular order.
	// Missing ids are silently skipped; callers detect them by comparing lengths.
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error)
}

// EntryRepository is the authoritative record store for diary entries.
type EntryRepository interface {
	EntryReader
	// ListAfter returns up to limit entries with ID > afterID, ordered by ID.
	// It is used for batch scans such as reindexing.
	ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error)
	// Create assigns e.ID.
	Create(ctx context.Context, e *entity.Entry) error
	Update(ctx context.Context, e *entity.Entry) error
	Delete(ctx context.Context, id int64) error
}
