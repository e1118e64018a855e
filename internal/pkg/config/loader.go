// Package config loads validated settings for long-running components.
//
// Unlike pkg/config, which silently parses optional tuning knobs, values
// loaded here carry a validator and report whether a fallback was applied,
// so callers can log the problem and export it through ConfigMetrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one variable.
type Result[T any] struct {
	Value T
	// Warning explains why the default was used. Empty unless FallbackApplied.
	Warning         string
	FallbackApplied bool
}

// Load reads key, parses it and validates it. An unset variable yields the
// default without a warning. A value that fails parse or validate yields the
// default with FallbackApplied set. validate may be nil.
func Load[T any](key string, defaultValue T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}

	fallback := func(err error) Result[T] {
		return Result[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, using default %v", key, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return fallback(err)
		}
	}
	return Result[T]{Value: value}
}

// LoadString loads a string validated by validate.
//
//	res := LoadString("CRON_SCHEDULE", "*/30 * * * *", ValidateCronSchedule)
func LoadString(key, defaultValue string, validate func(string) error) Result[string] {
	return Load(key, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadDuration loads a time.ParseDuration value.
func LoadDuration(key string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, defaultValue, time.ParseDuration, validate)
}

// LoadInt loads a base-10 integer.
func LoadInt(key string, defaultValue int, validate func(int) error) Result[int] {
	return Load(key, defaultValue, strconv.Atoi, validate)
}
