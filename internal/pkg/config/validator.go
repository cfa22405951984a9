package config

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the five-field form used by the worker schedule.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("cron schedule cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that name resolves to an IANA location.
func ValidateTimezone(name string) error {
	if name == "" {
		return errors.New("timezone cannot be empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return nil
}

// InRange checks min <= v <= max.
func InRange[T cmp.Ordered](v, min, max T) error {
	if min > max {
		return fmt.Errorf("invalid range: min %v is greater than max %v", min, max)
	}
	if v < min {
		return fmt.Errorf("%v is below minimum %v", v, min)
	}
	if v > max {
		return fmt.Errorf("%v exceeds maximum %v", v, max)
	}
	return nil
}

// Between returns a validator for InRange, for use with the Load helpers.
func Between[T cmp.Ordered](min, max T) func(T) error {
	return func(v T) error { return InRange(v, min, max) }
}
