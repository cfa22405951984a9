package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// EntryRepo implements repository.EntryRepository using SQLite.
type EntryRepo struct{ db *sql.DB }

// NewEntryRepo creates a new SQLite-backed record store.
func NewEntryRepo(db *sql.DB) repository.EntryRepository {
	return &EntryRepo{db: db}
}

func (repo *EntryRepo) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	const query = `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id = ?
LIMIT 1
`
	e, err := scanEntry(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return e, nil
}

func (repo *EntryRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if len(ids) == 0 {
		return []*entity.Entry{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id IN (` + placeholders + `)`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("GetByIDs: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows, len(ids), "GetByIDs")
}

func (repo *EntryRepo) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	const query = `
SELECT id, title, body, created_at, updated_at
FROM entries
WHERE id > ?
ORDER BY id
LIMIT ?
`
	rows, err := repo.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListAfter: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows, limit, "ListAfter")
}

func (repo *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	e.UpdatedAt = e.UpdatedAt.UTC()

	const query = `
INSERT INTO entries (title, body, created_at, updated_at)
VALUES (?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query, e.Title, e.Body, toNanos(e.CreatedAt), toNanos(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	e.ID = id
	return nil
}

func (repo *EntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	const query = `
UPDATE entries SET
       title      = ?,
       body       = ?,
       updated_at = ?
WHERE id = ?
`
	res, err := repo.db.ExecContext(ctx, query, e.Title, e.Body, toNanos(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *EntryRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*entity.Entry, error) {
	var (
		e                  entity.Entry
		created, updatedAt int64
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Body, &created, &updatedAt); err != nil {
		return nil, err
	}
	e.CreatedAt = fromNanos(created)
	e.UpdatedAt = fromNanos(updatedAt)
	return &e, nil
}

func scanEntries(rows *sql.Rows, capacity int, op string) ([]*entity.Entry, error) {
	entries := make([]*entity.Entry, 0, capacity)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return entries, nil
}
