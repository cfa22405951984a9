// Package config holds the lenient environment readers shared by the
// binaries. Unparseable values are logged and replaced by the default; they
// never fail startup.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

func getEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid environment value, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.Any("error", err))
		return def
	}
	return v
}

// GetEnvString returns the variable, or defaultValue when it is unset or empty.
func GetEnvString(key, defaultValue string) string {
	return getEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// GetEnvInt parses a base-10 integer.
func GetEnvInt(key string, defaultValue int) int {
	return getEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvBool accepts the forms strconv.ParseBool does: 1, t, true, 0, f, false...
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnv(key, defaultValue, strconv.ParseBool)
}

// GetEnvDuration parses a Go duration such as "500ms" or "2m".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnv(key, defaultValue, time.ParseDuration)
}
