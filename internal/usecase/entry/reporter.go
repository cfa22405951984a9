package entry

import (
	"context"
	"log/slog"

	"daybook/internal/observability/logging"
	"daybook/internal/observability/metrics"
)

// IndexFailureReporter is told about search index writes that failed after
// the record store write succeeded. The index is then stale until reindexed.
type IndexFailureReporter interface {
	ReportIndexFailure(ctx context.Context, op string, entryID int64, err error)
}

// LogReporter logs the failure and counts it in Prometheus.
type LogReporter struct{}

func (LogReporter) ReportIndexFailure(ctx context.Context, op string, entryID int64, err error) {
	metrics.RecordIndexWriteFailure(op)
	logging.WithRequestID(ctx, logging.FromContext(ctx)).Error("search index write failed; index is stale until reindex",
		slog.String("operation", op),
		slog.Int64("entry_id", entryID),
		slog.Any("error", err))
}
