// Package logging provides structured logging utilities using the standard library's log/slog package.
// It offers helper functions for creating loggers with consistent configuration and context propagation.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"daybook/internal/handler/http/requestid"
)

// Options controls how New builds a logger.
type Options struct {
	// Level is the minimum level that is emitted.
	Level slog.Level
	// Text selects the human-readable handler instead of JSON.
	Text bool
}

// OptionsFromEnv reads LOG_LEVEL (debug, info, warn, error) and
// LOG_FORMAT (json, text). Unknown values keep info and json.
func OptionsFromEnv() Options {
	var opts Options
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := opts.Level.UnmarshalText([]byte(lvl)); err != nil {
			opts.Level = slog.LevelInfo
		}
	}
	opts.Text = strings.EqualFold(os.Getenv("LOG_FORMAT"), "text")
	return opts
}

// New creates a logger that writes to w.
// Source locations are attached when warnings are enabled.
func New(w io.Writer, opts Options) *slog.Logger {
	ho := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.Level <= slog.LevelWarn,
	}
	if opts.Text {
		return slog.New(slog.NewTextHandler(w, ho))
	}
	return slog.New(slog.NewJSONHandler(w, ho))
}

// NewLogger creates the process logger on stdout, configured from the environment.
func NewLogger() *slog.Logger {
	return New(os.Stdout, OptionsFromEnv())
}

// WithRequestID returns a new logger that includes the request ID from the context.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

type loggerContextKey struct{}
