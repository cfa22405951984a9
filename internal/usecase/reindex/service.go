// Package reindex rebuilds the search index from the record store.
package reindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"daybook/internal/observability/metrics"
	"daybook/internal/repository"
	"daybook/internal/resilience/retry"
)

// Config controls how hard a reindex run pushes the index backend.
type Config struct {
	BatchSize     int
	Parallelism   int
	RatePerSecond float64 // 0 disables throttling
	Retry         retry.Config
}

// DefaultConfig returns conservative settings suitable for a nightly run.
func DefaultConfig() Config {
	return Config{
		BatchSize:     200,
		Parallelism:   4,
		RatePerSecond: 500,
		Retry:         retry.IndexConfig(),
	}
}

// Stats summarizes a reindex run.
type Stats struct {
	Indexed  int64
	Removed  int64
	Failed   int64
	Duration time.Duration
}

// Service copies every record into the index and drops index documents
// whose record no longer exists.
type Service struct {
	Records repository.EntryRepository
	Index   repository.SearchIndex
	Config  Config
}

// Run performs one full pass. Individual document failures are counted in
// Stats.Failed and do not stop the run; store errors and cancellation do.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	cfg := s.config()
	logger := slog.Default()
	start := time.Now()
	stats := &Stats{}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Parallelism)
	}

	seen, err := s.indexAll(ctx, cfg, limiter, stats)
	if err != nil {
		return stats, err
	}
	if err := s.removeOrphans(ctx, cfg, seen, stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	metrics.RecordReindex(int(stats.Indexed), int(stats.Removed), int(stats.Failed), stats.Duration)
	metrics.UpdateEntriesTotal(len(seen))
	logger.Info("reindex completed",
		slog.Int64("indexed", stats.Indexed),
		slog.Int64("removed", stats.Removed),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) config() Config {
	cfg := s.Config
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = def.Retry
	}
	return cfg
}

func (s *Service) indexAll(ctx context.Context, cfg Config, limiter *rate.Limiter, stats *Stats) (map[int64]struct{}, error) {
	seen := make(map[int64]struct{})
	var afterID int64
	for {
		batch, err := s.Records.ListAfter(ctx, afterID, cfg.BatchSize)
		if err != nil {
			return seen, fmt.Errorf("list records after %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			return seen, nil
		}

		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(cfg.Parallelism)
		for _, e := range batch {
			seen[e.ID] = struct{}{}
			eg.Go(func() error {
				if limiter != nil {
					if err := limiter.Wait(egCtx); err != nil {
						return err
					}
				}
				err := retry.WithBackoff(egCtx, cfg.Retry, func() error {
					return s.Index.Index(egCtx, e)
				})
				if err == nil {
					atomic.AddInt64(&stats.Indexed, 1)
					return nil
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.Failed, 1)
				slog.Warn("failed to index entry, skipping",
					slog.Int64("entry_id", e.ID),
					slog.Any("error", err))
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return seen, err
		}

		afterID = batch[len(batch)-1].ID
		if len(batch) < cfg.BatchSize {
			return seen, nil
		}
	}
}

func (s *Service) removeOrphans(ctx context.Context, cfg Config, seen map[int64]struct{}, stats *Stats) error {
	ids, err := s.Index.IDs(ctx)
	if err != nil {
		return fmt.Errorf("list index ids: %w", err)
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		// The entry may have been created after the listing pass.
		e, err := s.Records.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("check record %d: %w", id, err)
		}
		if e != nil {
			continue
		}
		if err := retry.WithBackoff(ctx, cfg.Retry, func() error { return s.Index.Remove(ctx, id) }); err != nil {
			if ctx.Err() != nil {
				return err
			}
			stats.Failed++
			slog.Warn("failed to remove orphaned index document",
				slog.Int64("entry_id", id),
				slog.Any("error", err))
			continue
		}
		stats.Removed++
	}
	return nil
}
