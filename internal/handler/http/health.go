// Package http provides the middleware, health probes and metrics endpoint
// shared by the diary API. Route handlers live in the diary subpackage.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"daybook/internal/resilience/circuitbreaker"
)

// Check statuses. Degraded is a warning; only unhealthy fails a probe.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Probe reports the health of one dependency.
type Probe func(ctx context.Context) CheckStatus

// PingProbe wraps a plain connectivity check.
func PingProbe(ping func(ctx context.Context) error) Probe {
	return func(ctx context.Context) CheckStatus {
		if err := ping(ctx); err != nil {
			return CheckStatus{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckStatus{Status: StatusHealthy}
	}
}

// DatabaseProbe pings db and reports connection pool statistics. A pool above
// 80% utilization is degraded.
func DatabaseProbe(db *sql.DB) Probe {
	return func(ctx context.Context) CheckStatus {
		if err := db.PingContext(ctx); err != nil {
			return CheckStatus{Status: StatusUnhealthy, Message: err.Error()}
		}

		stats := db.Stats()
		details := map[string]any{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		}

		// MaxOpenConnections == 0 means unlimited; there is no ratio to report
		if stats.MaxOpenConnections == 0 {
			return CheckStatus{Status: StatusHealthy, Details: details}
		}

		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80.0 {
			return CheckStatus{
				Status:  StatusDegraded,
				Message: "connection pool utilization above 80%",
				Details: details,
			}
		}
		return CheckStatus{Status: StatusHealthy, Details: details}
	}
}

// BreakerProbe reports an open circuit as degraded: requests are failing fast
// but the process itself is serving.
func BreakerProbe(cb *circuitbreaker.CircuitBreaker) Probe {
	return func(context.Context) CheckStatus {
		details := map[string]any{"state": cb.State().String()}
		if cb.IsOpen() {
			return CheckStatus{Status: StatusDegraded, Message: cb.Name() + " circuit is open", Details: details}
		}
		return CheckStatus{Status: StatusHealthy, Details: details}
	}
}

// runProbes evaluates every probe and reports whether none is unhealthy.
func runProbes(ctx context.Context, probes map[string]Probe) (map[string]CheckStatus, bool) {
	checks := make(map[string]CheckStatus, len(probes))
	ok := true
	for name, probe := range probes {
		st := probe(ctx)
		checks[name] = st
		if st.Status == StatusUnhealthy {
			ok = false
		}
	}
	return checks, ok
}

// HealthHandler serves /health with the status of every registered probe.
// Returns 200 when no probe is unhealthy and 503 otherwise.
type HealthHandler struct {
	Probes  map[string]Probe
	Version string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, ok := runProbes(ctx, h.Probes)

	status := StatusHealthy
	code := http.StatusOK
	if !ok {
		status = StatusUnhealthy
		code = http.StatusServiceUnavailable
	} else {
		for _, c := range checks {
			if c.Status == StatusDegraded {
				status = StatusDegraded
				break
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler handles readiness probes. The API is ready when no probe is
// unhealthy.
type ReadyHandler struct {
	Probes map[string]Probe
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks, ok := runProbes(ctx, h.Probes)
	if !ok {
		for name, c := range checks {
			if c.Status == StatusUnhealthy {
				http.Error(w, name+" not ready: "+c.Message, http.StatusServiceUnavailable)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler handles liveness probes; it always returns 200.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
