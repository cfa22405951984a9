package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daybook/internal/resilience/circuitbreaker"
)

func testBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:             "search-index",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1,
		MinRequests:      2,
	})
}

func TestMetricsMux_IndexHealth(t *testing.T) {
	cb := testBreaker()
	mux := newMetricsMux(cb)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/index", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got IndexHealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, IndexHealthResponse{Healthy: true, Breaker: "search-index", State: "closed"}, got)

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("index down") })
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/index", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.False(t, got.Healthy)
	assert.Equal(t, "open", got.State)
}

func TestMetricsMux_Endpoints(t *testing.T) {
	mux := newMetricsMux(testBreaker())

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMetricsPort(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", 9090},
		{"9191", 9191},
		{"0", 9090},
		{"70000", 9090},
		{"metrics", 9090},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("METRICS_PORT", tt.env)
			assert.Equal(t, tt.want, metricsPort())
		})
	}
}
