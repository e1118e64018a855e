package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the five-field form the worker schedules with.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression such as "*/30 * * * *".
// Descriptors like "@hourly" and six-field expressions with seconds are rejected.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("cron schedule is empty")
	}
	if _, err := scheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that timezone names a loadable IANA location.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return errors.New("timezone is empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks min <= d <= max.
func ValidateDuration(d, min, max time.Duration) error {
	return checkRange(d, min, max)
}

// ValidateIntRange checks min <= v <= max.
func ValidateIntRange(v, min, max int) error {
	return checkRange(v, min, max)
}

func checkRange[T int | time.Duration](v, min, max T) error {
	switch {
	case min > max:
		return fmt.Errorf("invalid range [%v, %v]", min, max)
	case v < min:
		return fmt.Errorf("%v is below minimum %v", v, min)
	case v > max:
		return fmt.Errorf("%v exceeds maximum %v", v, max)
	}
	return nil
}
