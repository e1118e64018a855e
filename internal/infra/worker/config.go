package worker

import (
	"fmt"
	"log/slog"
	"time"

	"news-extractor/internal/pkg/config"
)

// WorkerConfig holds the configuration of the backfill worker.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Every field has a default and a validator, so the worker can start even
// when the environment is wrong.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the seed+backfill pass.
	// Format: "minute hour day month weekday"
	// Default: "*/30 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// JobTimeout bounds a single pass. Range: 1m-4h. Default: 30 minutes.
	JobTimeout time.Duration

	// HealthPort serves /health, /health/ready, /health/last-run and /metrics.
	// Range: 1024-65535. Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with the default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "*/30 * * * *",
		Timezone:     "UTC",
		JobTimeout:   30 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and returns all failures together.
//
// Example:
//
//	cfg := DefaultConfig()
//	cfg.CronSchedule = "invalid"
//	cfg.HealthPort = 80
//	err := cfg.Validate()
//	// err: "validation failed: [cron schedule: ... health port: ...]"
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration, falling back to the
// default for every invalid value. It never fails: each fallback is logged
// and counted in metrics instead.
//
// Environment variables:
//   - CRON_SCHEDULE: Cron expression (default: "*/30 * * * *")
//   - CRON_TIMEZONE: IANA timezone name (default: "UTC")
//   - JOB_TIMEOUT: Duration string, e.g. "30m" (default: 30m)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	note := func(field, metricField string, fellBack bool, warning string) {
		if !fellBack {
			return
		}
		fallbackApplied = true
		metrics.RecordFallback(metricField)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	note("CronSchedule", "cron_schedule", schedule.FallbackApplied, schedule.Warning)

	tz := config.LoadString("CRON_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("Timezone", "timezone", tz.FallbackApplied, tz.Warning)

	timeout := config.LoadDuration("JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.JobTimeout = timeout.Value
	note("JobTimeout", "job_timeout", timeout.FallbackApplied, timeout.Warning)

	port := config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	note("HealthPort", "health_port", port.FallbackApplied, port.Warning)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

// Location returns the configured timezone, or UTC if it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
