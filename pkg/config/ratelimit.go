package config

import (
	"log/slog"
)

// RateLimitConfig configures the per-IP token bucket in front of the write routes.
type RateLimitConfig struct {
	Enabled   bool
	PerSecond float64
	Burst     int
}

// LoadRateLimitConfig loads write rate limiting configuration from environment variables.
//
// Invalid values are logged and replaced with defaults instead of failing.
//
// Environment variables:
//   - RATELIMIT_ENABLED: Enable/disable rate limiting (default: true)
//   - RATELIMIT_WRITES_PER_MINUTE: Sustained writes per client IP (default: 60)
//   - RATELIMIT_WRITE_BURST: Writes allowed in a burst (default: 10)
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: GetEnvBool("RATELIMIT_ENABLED", true),
	}

	perMinute := GetEnvInt("RATELIMIT_WRITES_PER_MINUTE", 60)
	if perMinute <= 0 {
		slog.Warn("invalid RATELIMIT_WRITES_PER_MINUTE, using default",
			slog.Int("value", perMinute),
			slog.Int("default", 60))
		perMinute = 60
	}
	cfg.PerSecond = float64(perMinute) / 60

	burst := GetEnvInt("RATELIMIT_WRITE_BURST", 10)
	if burst <= 0 {
		slog.Warn("invalid RATELIMIT_WRITE_BURST, using default",
			slog.Int("value", burst),
			slog.Int("default", 10))
		burst = 10
	}
	cfg.Burst = burst

	return cfg
}
