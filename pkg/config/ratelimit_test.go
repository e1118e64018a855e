package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.RPS)
	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadRateLimitConfig_FromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "false")
	t.Setenv("RATELIMIT_RPS", "2.5")
	t.Setenv("RATELIMIT_BURST", "10")
	t.Setenv("RATELIMIT_IDLE_TTL", "1m")
	t.Setenv("RATELIMIT_CLEANUP_INTERVAL", "30s")
	t.Setenv("RATELIMIT_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg := LoadRateLimitConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2.5, cfg.RPS)
	assert.Equal(t, 10, cfg.Burst)
	assert.Equal(t, time.Minute, cfg.IdleTTL)
	assert.Equal(t, 30*time.Second, cfg.CleanupInterval)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.10/32"),
	}, cfg.TrustedProxies)
}

func TestLoadRateLimitConfig_InvalidFallsBack(t *testing.T) {
	t.Setenv("RATELIMIT_RPS", "-1")
	t.Setenv("RATELIMIT_BURST", "0")
	t.Setenv("RATELIMIT_IDLE_TTL", "-5m")
	t.Setenv("RATELIMIT_TRUSTED_PROXIES", "not-a-cidr")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1.0, cfg.RPS)
	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestParseTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []netip.Prefix
		wantErr bool
	}{
		{
			name:  "cidr is masked",
			input: []string{"10.1.2.3/8"},
			want:  []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
		},
		{
			name:  "ipv6 single address",
			input: []string{"2001:db8::1"},
			want:  []netip.Prefix{netip.MustParsePrefix("2001:db8::1/128")},
		},
		{
			name:    "empty entry",
			input:   []string{""},
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   []string{"300.1.1.1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrustedProxies(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
