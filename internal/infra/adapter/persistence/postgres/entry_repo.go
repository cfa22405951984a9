package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// EntryRepo is the PostgreSQL record store.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) repository.EntryRepository {
	return &EntryRepo{db: db}
}

func (repo *EntryRepo) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	const query = `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id = $1
LIMIT 1`
	var e entity.Entry
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.Title, &e.Body, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &e, nil
}

func (repo *EntryRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if len(ids) == 0 {
		return []*entity.Entry{}, nil
	}
	const query = `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("GetByIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows, len(ids), "GetByIDs")
}

func (repo *EntryRepo) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	const query = `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id > $1
ORDER BY id
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListAfter: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows, limit, "ListAfter")
}

// Create inserts e and assigns its id. Timestamps are truncated to the
// microsecond precision of TIMESTAMPTZ so cursors built from e match the row.
func (repo *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Microsecond)
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	e.UpdatedAt = e.UpdatedAt.UTC().Truncate(time.Microsecond)

	const query = `
INSERT INTO entries
       (title, body, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, e.Title, e.Body, e.CreatedAt, e.UpdatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *EntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	e.UpdatedAt = e.UpdatedAt.UTC().Truncate(time.Microsecond)
	const query = `
UPDATE entries SET
       title      = $1,
       body       = $2,
       updated_at = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query, e.Title, e.Body, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *EntryRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM entries WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func scanEntries(rows *sql.Rows, capacity int, op string) ([]*entity.Entry, error) {
	entries := make([]*entity.Entry, 0, capacity)
	for rows.Next() {
		var e entity.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return entries, nil
}
