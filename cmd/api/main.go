package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"daybook/internal/config"
	hhttp "daybook/internal/handler/http"
	"daybook/internal/handler/http/diary"
	"daybook/internal/handler/http/requestid"
	"daybook/internal/infra/store"
	"daybook/internal/observability/logging"
	"daybook/internal/observability/metrics"
	"daybook/internal/observability/slo"
	"daybook/internal/observability/tracing"
	"daybook/internal/usecase/browse"
	entryUC "daybook/internal/usecase/entry"
	envconfig "daybook/pkg/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("DIARY_CONFIG"), "path to the YAML diary configuration")
	flag.Parse()

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	logger := initLogger()
	cfg, err := config.LoadDiaryConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.InitProvider()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	stores, err := store.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close stores", slog.Any("error", err))
		}
	}()

	version := getVersion()
	tracker := slo.NewTracker(0)
	handler := setupServer(logger, cfg, stores, tracker, version)

	runServer(logger, cfg, handler, version,
		func(ctx context.Context) { tracker.Run(ctx, 30*time.Second) },
		func(ctx context.Context) { stores.ReportPoolStats(ctx, 15*time.Second) },
	)
}

// initLogger initializes the JSON logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return envconfig.GetEnvString("VERSION", "dev")
}

// setupServer wires the use cases to the routes and wraps them in the
// middleware chain.
func setupServer(logger *slog.Logger, cfg *config.DiaryConfig, stores *store.Stores, tracker *slo.Tracker, version string) http.Handler {
	browseSvc := &browse.Service{
		Search:   stores.Index,
		Records:  stores.Records,
		PageSize: cfg.Browse.PageSize,
		Location: cfg.Location(),
	}
	entrySvc := &entryUC.Service{
		Repo:  stores.Records,
		Index: stores.Index,
	}

	var writeLimit func(http.Handler) http.Handler
	rl := envconfig.LoadRateLimitConfig()
	if rl.Enabled {
		writeLimit = hhttp.NewRateLimiter(rl.PerSecond, rl.Burst).Limit
		logger.Info("write rate limiting enabled",
			slog.Float64("per_second", rl.PerSecond),
			slog.Int("burst", rl.Burst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	probes := map[string]hhttp.Probe{
		"search_index": hhttp.BreakerProbe(stores.Breaker),
	}
	if stores.DB != nil {
		probes["database"] = hhttp.DatabaseProbe(stores.DB)
	}
	if stores.Redis != nil {
		probes["cache"] = hhttp.PingProbe(func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		})
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{Probes: probes, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Probes: probes})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// diary routes get the request deadline; probes and scrapes do not
	api := http.NewServeMux()
	diary.Register(api, browseSvc, entrySvc, cfg.Pagination(), logger, writeLimit)
	timed := hhttp.Timeout(cfg.HTTP.RequestTimeout)(api)
	for _, pattern := range []string{"/entries", "/entries/", "/months/", "/days/", "/search"} {
		mux.Handle(pattern, timed)
	}

	// Middleware order: Request ID → Recovery → Logging → Input Validation →
	// Body Limit → Tracing → Metrics
	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(cfg.HTTP.MaxBodyBytes),
		tracing.Middleware,
		hhttp.Metrics(tracker),
	)
}

// runServer starts the HTTP server and the background loops, and handles
// graceful shutdown. Each loop runs until the server stops.
func runServer(logger *slog.Logger, cfg *config.DiaryConfig, handler http.Handler, version string, loops ...func(context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, loop := range loops {
		go loop(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ConnState: trackConnections,
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}

// trackConnections keeps http_active_connections in step with the listener.
func trackConnections(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		metrics.ActiveConnections.Inc()
	case http.StateHijacked, http.StateClosed:
		metrics.ActiveConnections.Dec()
	}
}
