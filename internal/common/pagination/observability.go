package pagination

import (
	"context"
	"log/slog"
	"time"

	"daybook/internal/domain/entity"
)

// LogRequest logs an incoming page request at debug level.
func LogRequest(logger *slog.Logger, requestID string, cond entity.Condition, p Params) {
	logger.LogAttrs(context.Background(), slog.LevelDebug, "Page requested",
		slog.String("request_id", requestID),
		slog.String("kind", cond.Kind().String()),
		slog.String("condition", cond.String()),
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit))
}

// LogResponse logs a served page.
func LogResponse(logger *slog.Logger, requestID string, p Params, returned int, d time.Duration, status int) {
	logger.LogAttrs(context.Background(), slog.LevelInfo, "Page served",
		slog.String("request_id", requestID),
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
		slog.Int("returned_count", returned),
		slog.Int64("duration_ms", d.Milliseconds()),
		slog.Int("status", status))
}

// LogError logs a page request that failed on the server side.
func LogError(logger *slog.Logger, requestID string, p Params, err error, errorType string) {
	logger.LogAttrs(context.Background(), slog.LevelError, "Page request failed",
		slog.String("request_id", requestID),
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
		slog.String("error", err.Error()),
		slog.String("error_type", errorType))
}
