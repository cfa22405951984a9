package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"daybook/internal/config"
	"daybook/internal/handler/http/respond"
	"daybook/internal/infra/store"
	workerPkg "daybook/internal/infra/worker"
	"daybook/internal/observability/logging"
	"daybook/internal/usecase/reindex"
)

func main() {
	once := flag.Bool("once", false, "run a single reindex and exit")
	configPath := flag.String("config", os.Getenv("DIARY_CONFIG"), "path to the YAML diary configuration")
	flag.Parse()

	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	diaryConfig, err := config.LoadDiaryConfig(*configPath)
	if err != nil {
		logger.Error("failed to load diary configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("reindex_timeout", workerConfig.ReindexTimeout),
		slog.Int("reindex_parallelism", workerConfig.ReindexParallelism),
		slog.Int("reindex_rate", workerConfig.ReindexRate),
		slog.Int("health_port", workerConfig.HealthPort))

	stores, err := store.Open(ctx, diaryConfig, logger)
	if err != nil {
		logger.Error("failed to open stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close stores", slog.Any("error", err))
		}
	}()

	svc := &reindex.Service{
		Records: stores.Records,
		Index:   stores.Index,
		Config:  reindexConfig(workerConfig),
	}

	if *once {
		if err := runReindexJob(ctx, logger, svc, workerConfig, workerMetrics); err != nil {
			os.Exit(1)
		}
		return
	}

	// Start metrics HTTP server
	startMetricsServer(ctx, logger, stores.Breaker)
	go stores.ReportPoolStats(ctx, 30*time.Second)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	if stores.DB != nil {
		healthServer.AddCheck("database", stores.DB.PingContext)
	}
	if stores.Redis != nil {
		healthServer.AddCheck("cache", func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		})
	}
	healthServer.AddCheck("search_index", func(context.Context) error {
		if stores.Breaker.IsOpen() {
			return errors.New("circuit breaker open")
		}
		return nil
	})
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// reindexConfig maps the worker settings onto a reindex run.
func reindexConfig(cfg *workerPkg.WorkerConfig) reindex.Config {
	rc := reindex.DefaultConfig()
	rc.Parallelism = cfg.ReindexParallelism
	rc.RatePerSecond = float64(cfg.ReindexRate)
	return rc
}

// startCronWorker runs the reindex job on the configured schedule until ctx
// is canceled. Overlapping runs are skipped.
func startCronWorker(ctx context.Context, logger *slog.Logger, svc *reindex.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		_ = runReindexJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("worker stopping, waiting for running job")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runReindexJob executes a single reindex run with timeout and error handling.
func runReindexJob(ctx context.Context, logger *slog.Logger, svc *reindex.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) error {
	startTime := time.Now()
	logger.Info("reindex started")

	ctx, cancel := context.WithTimeout(ctx, cfg.ReindexTimeout)
	defer cancel()

	stats, err := svc.Run(ctx)
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	if stats != nil {
		metrics.RecordDocuments(stats.Indexed, stats.Removed, stats.Failed)
	}
	if err != nil {
		// mask credentials that drivers put into error strings
		logger.Error("reindex failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		return err
	}

	metrics.RecordJobRun("success")
	metrics.RecordLastSuccess()
	logger.Info("reindex job finished",
		slog.Int64("indexed", stats.Indexed),
		slog.Int64("removed", stats.Removed),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	return nil
}
