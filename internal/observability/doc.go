// Package observability groups the logging, metrics, SLO and tracing
// infrastructure shared by the API server, the reindex worker and diaryctl.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, browsing, the index and the database
//   - slo: rolling availability and latency objectives fed by the HTTP middleware
//   - tracing: OpenTelemetry provider setup and span middleware
//
//	logger := logging.NewLogger()
//	shutdown := tracing.InitProvider()
//	metrics.RecordBrowse("month", "success", time.Since(start))
package observability
