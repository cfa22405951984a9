package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessCheck probes one dependency of the worker, such as the record store.
type ReadinessCheck func(ctx context.Context) error

// checkTimeout bounds a single readiness probe.
const checkTimeout = 2 * time.Second

// HealthServer serves the worker's probes:
//   - /health: liveness, always 200 while the process is serving
//   - /health/ready: readiness, 200 only after SetReady(true) and when every
//     registered ReadinessCheck passes
//
// The server shuts down gracefully when the Start context is cancelled.
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady *atomic.Bool
	server  *http.Server

	mu     sync.RWMutex
	checks map[string]ReadinessCheck
}

// healthResponse is the JSON body of both endpoints.
// Checks lists the failing dependencies and is omitted when all pass.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealthServer creates a health server listening on addr. It starts not ready.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false)

	return &HealthServer{
		addr:    addr,
		logger:  logger,
		isReady: isReady,
		checks:  make(map[string]ReadinessCheck),
	}
}

// AddCheck registers a named readiness probe. Registering the same name twice
// replaces the earlier probe.
func (h *HealthServer) AddCheck(name string, check ReadinessCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Handler returns the probe routes without starting a listener.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	return mux
}

// Start serves the probes until ctx is cancelled or the listener fails.
// On cancellation it shuts down with a 5 second grace period and returns
// http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if err == http.ErrServerClosed {
			return err
		}
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	}
}

// SetReady flips the readiness flag reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if !h.isReady.Load() {
		h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
		return
	}

	if failed := h.runChecks(r.Context()); len(failed) > 0 {
		h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Checks: failed})
		return
	}
	h.write(w, http.StatusOK, healthResponse{Status: "ok"})
}

// runChecks runs every probe concurrently and returns the failures by name.
func (h *HealthServer) runChecks(ctx context.Context) map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.checks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed map[string]string
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check ReadinessCheck) {
			defer wg.Done()
			if err := check(ctx); err != nil {
				h.logger.Warn("readiness check failed",
					slog.String("check", name),
					slog.Any("error", err))
				mu.Lock()
				if failed == nil {
					failed = make(map[string]string)
				}
				failed[name] = err.Error()
				mu.Unlock()
			}
		}(name, check)
	}
	wg.Wait()
	return failed
}

func (h *HealthServer) write(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
