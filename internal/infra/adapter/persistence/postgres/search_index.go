package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/pkg/search"
	"daybook/internal/repository"
)

// SearchIndex is the PostgreSQL search index over the entry_index table.
type SearchIndex struct {
	db           *sql.DB
	queryBuilder *EntryQueryBuilder
}

// NewSearchIndex returns an index resolving month and date conditions in loc.
func NewSearchIndex(db *sql.DB, loc *time.Location) repository.SearchIndex {
	return &SearchIndex{db: db, queryBuilder: NewEntryQueryBuilder(loc)}
}

func (s *SearchIndex) FindByCondition(ctx context.Context, cond entity.Condition, offset, limit int) (repository.SearchResult, error) {
	whereClause, args, err := s.queryBuilder.BuildWhereClause(cond)
	if err != nil {
		return repository.SearchResult{}, err
	}
	if cond.Kind() == entity.KindKeywords {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, search.DefaultSearchTimeout)
		defer cancel()
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM entry_index " + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return repository.SearchResult{}, fmt.Errorf("FindByCondition: count: %w", err)
	}

	paramIndex := len(args) + 1
	query := fmt.Sprintf(`
SELECT entry_id
FROM entry_index
%s
%s
LIMIT $%d OFFSET $%d`, whereClause, s.queryBuilder.OrderBy(cond), paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	ids, err := s.queryIDs(ctx, "FindByCondition", query, limit, args...)
	if err != nil {
		return repository.SearchResult{}, err
	}
	return repository.SearchResult{IDs: ids, TotalCount: total}, nil
}

func (s *SearchIndex) CursorForward(ctx context.Context, from repository.Cursor, offset, limit int) ([]int64, error) {
	const query = `
SELECT entry_id
FROM entry_index
WHERE (created_at, entry_id) >= ($1, $2)
ORDER BY created_at ASC, entry_id ASC
LIMIT $3 OFFSET $4`
	return s.queryIDs(ctx, "CursorForward", query, limit, from.At.UTC(), from.ID, limit, offset)
}

func (s *SearchIndex) CursorBackward(ctx context.Context, until repository.Cursor, offset, limit int) ([]int64, error) {
	const query = `
SELECT entry_id
FROM entry_index
WHERE (created_at, entry_id) < ($1, $2)
ORDER BY created_at DESC, entry_id DESC
LIMIT $3 OFFSET $4`
	return s.queryIDs(ctx, "CursorBackward", query, limit, until.At.UTC(), until.ID, limit, offset)
}

func (s *SearchIndex) Index(ctx context.Context, e *entity.Entry) error {
	const query = `
INSERT INTO entry_index (entry_id, created_at, document)
VALUES ($1, $2, $3)
ON CONFLICT (entry_id) DO UPDATE SET
       created_at = EXCLUDED.created_at,
       document   = EXCLUDED.document`
	if _, err := s.db.ExecContext(ctx, query, e.ID, e.CreatedAt.UTC(), search.Document(e.Title, e.Body)); err != nil {
		return fmt.Errorf("Index: %w", err)
	}
	return nil
}

func (s *SearchIndex) Remove(ctx context.Context, id int64) error {
	const query = `DELETE FROM entry_index WHERE entry_id = $1`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}

func (s *SearchIndex) IDs(ctx context.Context) ([]int64, error) {
	return s.queryIDs(ctx, "IDs", `SELECT entry_id FROM entry_index ORDER BY entry_id`, 100)
}

func (s *SearchIndex) queryIDs(ctx context.Context, op, query string, capacity int, args ...interface{}) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	if capacity < 0 {
		capacity = 0
	}
	ids := make([]int64, 0, capacity)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return ids, nil
}
