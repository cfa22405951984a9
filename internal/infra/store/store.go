// Package store assembles the record store and search index selected by the
// diary configuration, including their cache, retry and circuit breaker
// decorators. The API, the worker and diaryctl all open their stores here.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"daybook/internal/config"
	"daybook/internal/infra/adapter/persistence/memory"
	pgRepo "daybook/internal/infra/adapter/persistence/postgres"
	sqliteRepo "daybook/internal/infra/adapter/persistence/sqlite"
	"daybook/internal/infra/cache"
	"daybook/internal/infra/db"
	"daybook/internal/repository"
	"daybook/internal/resilience/circuitbreaker"
	"daybook/internal/resilience/retry"
)

// Stores holds the decorated ports plus the handles needed for health checks
// and shutdown. DB is nil for the memory driver and Redis is nil when caching
// is disabled or unreachable.
type Stores struct {
	DB      *sql.DB
	Redis   *redis.Client
	Records repository.EntryRepository
	Index   repository.SearchIndex
	Breaker *circuitbreaker.CircuitBreaker
}

// Open connects the configured backend, applies migrations and wraps the ports.
//
// Decorator order for SQL records is store, timing, retry, cache: cache hits
// skip retries entirely. The index is wrapped by a circuit breaker only.
func Open(ctx context.Context, cfg *config.DiaryConfig, logger *slog.Logger) (*Stores, error) {
	s := &Stores{}
	loc := cfg.Location()

	var (
		records repository.EntryRepository
		index   repository.SearchIndex
	)
	switch cfg.Store.Driver {
	case config.StoreMemory:
		records = memory.NewEntryRepo()
		index = memory.NewSearchIndex(loc)
		logger.Warn("using the in-memory store; entries are lost on restart")
	case config.StoreSQLite, config.StorePostgres:
		dialect := db.Dialect(cfg.Store.Driver)
		database, err := db.Open(ctx, dialect, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", dialect, err)
		}
		if err := db.MigrateUp(ctx, database, dialect); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate %s store: %w", dialect, err)
		}
		s.DB = database
		if dialect == db.DialectPostgres {
			records = pgRepo.NewEntryRepo(database)
			index = pgRepo.NewSearchIndex(database, loc)
		} else {
			records = sqliteRepo.NewEntryRepo(database)
			index = sqliteRepo.NewSearchIndex(database, loc)
		}
		records = timedRecords{next: records}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	records = retry.NewEntryRepository(records, retry.DBConfig())

	if cfg.CacheEnabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			// the cache is an optimization; run without it
			logger.Warn("redis unavailable, entry cache disabled",
				slog.String("addr", cfg.Cache.Addr),
				slog.Any("error", err))
		} else {
			s.Redis = client
			records = cache.NewCachedEntryRepository(records, client, cfg.Cache.TTL)
			logger.Info("entry cache enabled",
				slog.String("addr", cfg.Cache.Addr),
				slog.Duration("ttl", cfg.Cache.TTL))
		}
	}

	guarded := circuitbreaker.NewSearchIndex(index)
	s.Records = records
	s.Index = guarded
	s.Breaker = guarded.Breaker()

	logger.Info("stores opened",
		slog.String("driver", cfg.Store.Driver),
		slog.String("timezone", loc.String()))
	return s, nil
}

// Close releases the database and Redis connections.
func (s *Stores) Close() error {
	var errs []error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
