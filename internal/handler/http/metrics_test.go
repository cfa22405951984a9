package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"daybook/internal/observability/metrics"
	"daybook/internal/observability/slo"
)

func TestMetrics_PathNormalization(t *testing.T) {
	metrics.HTTPRequestsTotal.Reset()

	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))

	for _, path := range []string{"/entries/1", "/entries/2", "/entries/3", "/days/2024/03/05", "/days/2024/03/06"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/entries/:id", "200")); got != 3 {
		t.Errorf("expected 3 requests on /entries/:id, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/days/:year/:month/:day", "200")); got != 2 {
		t.Errorf("expected 2 requests on /days/:year/:month/:day, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.HTTPRequestsTotal); n != 2 {
		t.Errorf("expected 2 label sets, got %d", n)
	}
}

func TestMetrics_StatusCodes(t *testing.T) {
	metrics.HTTPRequestsTotal.Reset()

	for _, code := range []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable} {
		handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search", nil))
	}

	for _, status := range []string{"200", "400", "404", "503"} {
		if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/search", status)); got != 1 {
			t.Errorf("status %s: expected 1, got %v", status, got)
		}
	}
}

func TestMetrics_InFlight(t *testing.T) {
	var during float64
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.HTTPRequestsInFlight)
	}))

	before := testutil.ToFloat64(metrics.HTTPRequestsInFlight)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entries", nil))

	if during != before+1 {
		t.Errorf("expected in-flight %v during request, got %v", before+1, during)
	}
	if after := testutil.ToFloat64(metrics.HTTPRequestsInFlight); after != before {
		t.Errorf("expected in-flight back to %v, got %v", before, after)
	}
}

func TestMetrics_FeedsTracker(t *testing.T) {
	tracker := slo.NewTracker(10)
	handler := Metrics(tracker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		time.Sleep(time.Millisecond)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entries", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	snap := tracker.Publish()
	if snap.Requests != 2 {
		t.Errorf("expected 2 tracked requests, got %d", snap.Requests)
	}
	if snap.ErrorRate != 0.5 {
		t.Errorf("expected error rate 0.5, got %v", snap.ErrorRate)
	}
	if snap.LatencyP99 <= 0 {
		t.Errorf("expected positive latency, got %v", snap.LatencyP99)
	}
}

func TestMetricsHandler(t *testing.T) {
	// touch a series so it is exported
	metrics.HTTPRequestsTotal.WithLabelValues("GET", "/entries", "200").Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"http_requests_total", "http_requests_in_flight", "diary_entries_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}
