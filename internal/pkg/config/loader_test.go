package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadString(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         string
		wantFallback bool
	}{
		{name: "unset uses default", value: "", want: "*/30 * * * *"},
		{name: "valid value", value: "0 6 * * *", want: "0 6 * * *"},
		{name: "whitespace trimmed", value: "  0 6 * * *  ", want: "0 6 * * *"},
		{name: "invalid falls back", value: "every hour", want: "*/30 * * * *", wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.value)

			res := LoadString("TEST_CRON", "*/30 * * * *", ValidateCronSchedule)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, res.Warning, "TEST_CRON")
				assert.Contains(t, res.Warning, "every hour")
			} else {
				assert.Empty(t, res.Warning)
			}
		})
	}
}

func TestLoadString_NilValidator(t *testing.T) {
	t.Setenv("TEST_ANY", "anything")

	res := LoadString("TEST_ANY", "default", nil)

	assert.Equal(t, "anything", res.Value)
	assert.False(t, res.FallbackApplied)
}

func TestLoadDuration(t *testing.T) {
	inRange := func(d time.Duration) error { return ValidateDuration(d, time.Minute, time.Hour) }

	tests := []struct {
		name         string
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{name: "unset", value: "", want: 30 * time.Minute},
		{name: "valid", value: "45m", want: 45 * time.Minute},
		{name: "unparseable", value: "soon", want: 30 * time.Minute, wantFallback: true},
		{name: "missing unit", value: "45", want: 30 * time.Minute, wantFallback: true},
		{name: "out of range", value: "2h", want: 30 * time.Minute, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TIMEOUT", tt.value)

			res := LoadDuration("TEST_TIMEOUT", 30*time.Minute, inRange)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
		})
	}
}

func TestLoadInt(t *testing.T) {
	port := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
	}{
		{name: "unset", value: "", want: 9091},
		{name: "valid", value: "8080", want: 8080},
		{name: "not a number", value: "http", want: 9091, wantFallback: true},
		{name: "trailing garbage", value: "8080x", want: 9091, wantFallback: true},
		{name: "privileged port", value: "80", want: 9091, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_PORT", tt.value)

			res := LoadInt("TEST_PORT", 9091, port)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.wantFallback, res.FallbackApplied)
		})
	}
}
