package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daybook/internal/handler/http/pathutil"
	"daybook/internal/handler/http/responsewriter"
	"daybook/internal/observability/metrics"
	"daybook/internal/observability/slo"
)

// Metrics returns middleware that records request count, latency and sizes in
// the shared registry. Paths are normalized so diary ids and dates do not
// explode label cardinality. When tracker is non-nil every request also feeds
// the SLO gauges.
func Metrics(tracker *slo.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrapped := responsewriter.Wrap(w)
			start := time.Now()
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			// Example: /days/2024/03/05 -> /days/:year/:month/:day
			path := pathutil.NormalizePath(r.URL.Path)
			metrics.RecordHTTPRequest(
				r.Method,
				path,
				strconv.Itoa(wrapped.StatusCode()),
				duration,
				int(r.ContentLength),
				wrapped.BytesWritten(),
			)
			if tracker != nil {
				tracker.Observe(wrapped.StatusCode(), duration)
			}
		})
	}
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
