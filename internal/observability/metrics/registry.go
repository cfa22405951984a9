// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Business metrics track diary browsing and the write path
var (
	// EntriesTotal tracks the number of entries in the record store
	EntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "diary_entries_total",
			Help: "Total number of entries in the record store",
		},
	)

	// BrowseRequestsTotal counts page computations by condition kind and result
	BrowseRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_browse_requests_total",
			Help: "Total number of page computations",
		},
		[]string{"kind", "result"}, // result: success, invalid, not_found, inconsistent, error
	)

	// BrowseDuration measures time to compute a page including adjacency
	BrowseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diary_browse_duration_seconds",
			Help:    "Time taken to compute a page and its adjacency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	// AdjacentResolvedTotal counts next/prev pointers by the variant they resolved to
	AdjacentResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_adjacent_resolved_total",
			Help: "Total number of adjacency pointers resolved",
		},
		[]string{"kind", "direction", "variant"}, // variant: page, condition, none
	)

	// IndexWriteFailuresTotal counts search index writes that failed after the record write succeeded
	IndexWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_index_write_failures_total",
			Help: "Total number of search index writes that failed after a successful record write",
		},
		[]string{"operation"}, // operation: create, update, delete
	)

	// ReindexDocumentsTotal counts documents touched by reindex runs
	ReindexDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_reindex_documents_total",
			Help: "Total number of documents processed by reindex runs",
		},
		[]string{"action"}, // action: indexed, removed, failed
	)

	// ReindexDuration measures the wall time of a full reindex run
	ReindexDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diary_reindex_duration_seconds",
			Help:    "Time taken by a full reindex run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// CacheRequestsTotal counts record cache lookups by result
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_cache_requests_total",
			Help: "Total number of record cache lookups",
		},
		[]string{"result"}, // result: hit, miss, error
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
