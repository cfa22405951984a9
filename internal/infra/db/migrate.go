package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"daybook/internal/infra/db/migrations"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// MigrateUp applies every pending migration for dialect.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	fsys, gooseDialect, err := migrationsFor(dialect)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func migrationsFor(dialect Dialect) (fs.FS, string, error) {
	switch dialect {
	case DialectPostgres:
		sub, err := fs.Sub(migrations.Postgres, "postgres")
		return sub, "postgres", err
	case DialectSQLite:
		sub, err := fs.Sub(migrations.SQLite, "sqlite")
		return sub, "sqlite3", err
	default:
		return nil, "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// gooseLogger routes goose progress lines through slog so they follow the
// process log level and format.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
	os.Exit(1)
}
