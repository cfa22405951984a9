package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one environment variable.
// When the variable was set but unusable, Value holds the default and Warning
// explains what was rejected.
type Result[T any] struct {
	Value   T
	Warning string
}

// FallbackApplied reports whether the default replaced a rejected value.
func (r Result[T]) FallbackApplied() bool {
	return r.Warning != ""
}

// Load reads key, parses it and validates the parsed value. It never fails:
// an unset variable yields def silently, and a parse or validation failure
// yields def with a warning. parse and validate may be nil.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(key)
	if raw == "" {
		return Result[T]{Value: def}
	}

	var v T
	if parse == nil {
		s, ok := any(raw).(T)
		if !ok {
			return fallback(key, raw, def, fmt.Errorf("no parser for %T", def))
		}
		v = s
	} else {
		parsed, err := parse(raw)
		if err != nil {
			return fallback(key, raw, def, err)
		}
		v = parsed
	}

	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(key, raw, def, err)
		}
	}
	return Result[T]{Value: v}
}

func fallback[T any](key, raw string, def T, err error) Result[T] {
	return Result[T]{
		Value:   def,
		Warning: fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, def),
	}
}

// LoadString loads a string variable.
func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, nil, validate)
}

// LoadDuration loads a Go duration string such as "30s" or "1h30m".
func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

// LoadInt loads a base-10 integer.
func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("not an integer")
		}
		return n, nil
	}, validate)
}
