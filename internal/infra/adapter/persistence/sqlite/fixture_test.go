package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/infra/adapter/persistence/sqlite"
	"daybook/internal/infra/db"
	"daybook/internal/repository"
)

// ─────────────────────────────────────────────
// ヘルパ：インメモリ DB
// ─────────────────────────────────────────────
func openDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.MigrateUp(ctx, conn, db.DialectSQLite); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return conn
}

// seed stores and indexes one entry per timestamp, returning them in input order.
func seed(t *testing.T, conn *sql.DB, at ...time.Time) []*entity.Entry {
	t.Helper()
	ctx := context.Background()
	repo := sqlite.NewEntryRepo(conn)
	idx := sqlite.NewSearchIndex(conn, time.UTC)
	out := make([]*entity.Entry, 0, len(at))
	for i, ts := range at {
		e := &entity.Entry{Title: "entry", Body: "body " + string(rune('a'+i)), CreatedAt: ts}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := idx.Index(ctx, e); err != nil {
			t.Fatalf("Index: %v", err)
		}
		out = append(out, e)
	}
	return out
}

func idsOf(entries ...*entity.Entry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func cursorOf(e *entity.Entry) repository.Cursor { return repository.CursorOf(e) }
