package pagination

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts served pages by condition kind and page bucket.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browse_pagination_requests_total",
			Help: "Total number of pages served",
		},
		[]string{"kind", "page_range"},
	)

	// DurationSeconds observes page computation time by layer.
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "browse_pagination_duration_seconds",
			Help:    "Page computation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
		},
		[]string{"operation"},
	)

	// ErrorsTotal counts failed page requests by condition kind and error type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browse_pagination_errors_total",
			Help: "Total number of failed page requests",
		},
		[]string{"kind", "type"},
	)
)

func RecordRequest(kind string, page int) {
	RequestsTotal.WithLabelValues(kind, pageBucket(page)).Inc()
}

func RecordDuration(operation string, d time.Duration) {
	DurationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordError counts a failure. errorType is one of validation, not_found,
// unavailable or database.
func RecordError(kind, errorType string) {
	ErrorsTotal.WithLabelValues(kind, errorType).Inc()
}

// pageBucket keeps the page label at four values.
func pageBucket(page int) string {
	switch {
	case page <= 1:
		return "1"
	case page <= 10:
		return "2-10"
	case page <= 100:
		return "11-100"
	default:
		return "100+"
	}
}
