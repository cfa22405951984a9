package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daybook/internal/handler/http/respond"
	"daybook/internal/resilience/circuitbreaker"
	envconfig "daybook/pkg/config"
)

const defaultMetricsPort = 9090

// IndexHealthResponse reports the search index circuit breaker.
type IndexHealthResponse struct {
	Healthy bool   `json:"healthy"`
	Breaker string `json:"breaker"`
	State   string `json:"state"`
}

// newMetricsMux serves /metrics, a bare liveness probe on /health and the
// breaker state on /health/index.
func newMetricsMux(breaker *circuitbreaker.CircuitBreaker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("GET /health/index", func(w http.ResponseWriter, _ *http.Request) {
		resp := IndexHealthResponse{
			Healthy: !breaker.IsOpen(),
			Breaker: breaker.Name(),
			State:   breaker.State().String(),
		}
		code := http.StatusOK
		if !resp.Healthy {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(w, code, resp)
	})
	return mux
}

// startMetricsServer listens on METRICS_PORT until ctx is cancelled.
func startMetricsServer(ctx context.Context, logger *slog.Logger, breaker *circuitbreaker.CircuitBreaker) *http.Server {
	port := metricsPort()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newMetricsMux(breaker),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return
		}
		logger.Info("metrics server stopped")
	}()

	return server
}

func metricsPort() int {
	port := envconfig.GetEnvInt("METRICS_PORT", defaultMetricsPort)
	if port <= 0 || port > 65535 {
		return defaultMetricsPort
	}
	return port
}
