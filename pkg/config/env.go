// Package config provides environment variable helpers shared by every
// component's Load*Config function.
//
// Unset or empty variables return the default silently. Values that do not
// parse also return the default, with a warning naming the variable, so a
// typo never prevents startup.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup parses key with parse, falling back to defaultValue.
func lookup[T any](key string, defaultValue T, kind string, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := parse(raw)
	if err != nil {
		slog.Warn("invalid "+kind+" value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// GetEnvString returns the variable, or defaultValue when it is unset or empty.
func GetEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses a base-10 integer.
//
//	port := GetEnvInt("WORKER_HEALTH_PORT", 9091)
func GetEnvInt(key string, defaultValue int) int {
	return lookup(key, defaultValue, "integer", strconv.Atoi)
}

// GetEnvFloat parses a float64.
//
//	rps := GetEnvFloat("AIRTABLE_RATE_LIMIT", 5)
func GetEnvFloat(key string, defaultValue float64) float64 {
	return lookup(key, defaultValue, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the forms strconv.ParseBool does: 1, t, true, 0, f,
// false and their upper-case variants.
func GetEnvBool(key string, defaultValue bool) bool {
	return lookup(key, defaultValue, "boolean", strconv.ParseBool)
}

// GetEnvDuration parses a time.ParseDuration string such as "30s" or "1h30m".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return lookup(key, defaultValue, "duration", time.ParseDuration)
}

// GetEnvStringList splits a comma-separated list, trimming entries and
// dropping empty ones. A list with no entries returns defaultValue.
//
//	FEED_URLS="https://a.example/rss, https://b.example/atom"
//	// ["https://a.example/rss", "https://b.example/atom"]
func GetEnvStringList(key string, defaultValue []string) []string {
	var result []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
