package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"daybook/internal/pkg/config"
)

// WorkerConfig holds the configuration for the reindex worker.
// This configuration controls the cron schedule, timezone, how hard a
// reindex run may push the search index, and the health server port.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have defaults and validation rules so the worker can operate
// safely even with invalid or missing configuration.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the reindex job.
	// Format: "minute hour day month weekday"
	// Default: "0 4 * * *" (every day at 4:00)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "Asia/Tokyo"
	Timezone string

	// ReindexTimeout is the maximum duration for a single reindex run.
	// Range: 1m-4h
	// Default: 30 minutes
	ReindexTimeout time.Duration

	// ReindexParallelism is the number of concurrent index writes.
	// Range: 1-32
	// Default: 4
	ReindexParallelism int

	// ReindexRate caps index writes per second; 0 disables throttling.
	// Range: 0-10000
	// Default: 500
	ReindexRate int

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535 (avoid privileged ports)
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:       "0 4 * * *",      // Every day at 4:00 AM
		Timezone:           "Asia/Tokyo",     // JST
		ReindexTimeout:     30 * time.Minute, // 30 minutes
		ReindexParallelism: 4,
		ReindexRate:        500,
		HealthPort:         9091, // Standard Prometheus exporter port
	}
}

// Validate checks if the configuration values are valid.
// If multiple fields are invalid, all errors are collected and returned together.
//
// Validation rules:
//   - CronSchedule: Must be a valid cron expression (validated by robfig/cron parser)
//   - Timezone: Must be a valid IANA timezone name (validated by time.LoadLocation)
//   - ReindexTimeout: Must be between 1 minute and 4 hours
//   - ReindexParallelism: Must be between 1 and 32 (inclusive)
//   - ReindexRate: Must be between 0 and 10000 (inclusive)
//   - HealthPort: Must be between 1024 and 65535
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.InRange(c.ReindexTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("reindex timeout: %w", err))
	}
	if err := config.InRange(c.ReindexParallelism, 1, 32); err != nil {
		errs = append(errs, fmt.Errorf("reindex parallelism: %w", err))
	}
	if err := config.InRange(c.ReindexRate, 0, 10000); err != nil {
		errs = append(errs, fmt.Errorf("reindex rate: %w", err))
	}
	if err := config.InRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Location returns the *time.Location for Timezone, falling back to UTC.
// Timezone has already been validated by LoadConfigFromEnv.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy:
//  1. Start with DefaultConfig() as base
//  2. Load each field from environment variables
//  3. If validation fails: use default value, log warning, increment metrics
//  4. Never return error - always return a valid configuration
//
// Environment variables:
//   - REINDEX_CRON_SCHEDULE: Cron expression (default: "0 4 * * *")
//   - REINDEX_TIMEZONE: IANA timezone name (default: "Asia/Tokyo")
//   - REINDEX_TIMEOUT: Duration string, e.g., "30m" (default: 30 minutes)
//   - REINDEX_PARALLELISM: Integer 1-32 (default: 4)
//   - REINDEX_RATE: Integer 0-10000 writes per second (default: 500)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	note := func(field, metricField, warning string) {
		if warning == "" {
			return
		}
		fallbackApplied = true
		metrics.RecordFallback(metricField)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadString("REINDEX_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	note("CronSchedule", "cron_schedule", schedule.Warning)

	tz := config.LoadString("REINDEX_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("Timezone", "timezone", tz.Warning)

	timeout := config.LoadDuration("REINDEX_TIMEOUT", cfg.ReindexTimeout, config.Between(time.Minute, 4*time.Hour))
	cfg.ReindexTimeout = timeout.Value
	note("ReindexTimeout", "reindex_timeout", timeout.Warning)

	ints := []struct {
		key, field, metric string
		dst                *int
		min, max           int
	}{
		{"REINDEX_PARALLELISM", "ReindexParallelism", "reindex_parallelism", &cfg.ReindexParallelism, 1, 32},
		{"REINDEX_RATE", "ReindexRate", "reindex_rate", &cfg.ReindexRate, 0, 10000},
		{"WORKER_HEALTH_PORT", "HealthPort", "health_port", &cfg.HealthPort, 1024, 65535},
	}
	for _, in := range ints {
		r := config.LoadInt(in.key, *in.dst, config.Between(in.min, in.max))
		*in.dst = r.Value
		note(in.field, in.metric, r.Warning)
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Always return valid config (fail-open strategy)
	return &cfg, nil
}
