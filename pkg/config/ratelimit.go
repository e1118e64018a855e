package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"
)

// RateLimitConfig configures the per-client token bucket on /process_url.
type RateLimitConfig struct {
	// Enabled turns rate limiting on or off
	Enabled bool

	// RPS is the sustained number of requests per second per client IP
	RPS float64

	// Burst is the bucket size per client IP
	Burst int

	// IdleTTL is how long an idle client's bucket is kept in memory
	IdleTTL time.Duration

	// CleanupInterval is how often idle buckets are swept
	CleanupInterval time.Duration

	// TrustedProxies lists the proxy ranges whose X-Forwarded-For and
	// X-Real-IP headers are honoured. Empty means RemoteAddr only.
	TrustedProxies []netip.Prefix
}

// LoadRateLimitConfig loads rate limiting configuration from environment variables.
//
// Invalid values are logged and replaced with defaults instead of failing.
//
// Environment variables:
//   - RATELIMIT_ENABLED: Enable/disable rate limiting (default: true)
//   - RATELIMIT_RPS: Requests per second per IP (default: 1)
//   - RATELIMIT_BURST: Burst size per IP (default: 5)
//   - RATELIMIT_IDLE_TTL: Idle bucket lifetime (default: 10m)
//   - RATELIMIT_CLEANUP_INTERVAL: Cleanup interval (default: 5m)
//   - RATELIMIT_TRUSTED_PROXIES: Comma-separated CIDRs or IPs (default: none)
//
// Example:
//
//	cfg := LoadRateLimitConfig()
//	limiter := httph.NewRateLimiter(cfg)
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: GetEnvBool("RATELIMIT_ENABLED", true),
	}

	rps := GetEnvFloat("RATELIMIT_RPS", 1)
	if rps <= 0 {
		slog.Warn("invalid RATELIMIT_RPS, using default",
			slog.Float64("value", rps),
			slog.Float64("default", 1))
		rps = 1
	}
	cfg.RPS = rps

	burst := GetEnvInt("RATELIMIT_BURST", 5)
	if burst < 1 {
		slog.Warn("invalid RATELIMIT_BURST, using default",
			slog.Int("value", burst),
			slog.Int("default", 5))
		burst = 5
	}
	cfg.Burst = burst

	idle := GetEnvDuration("RATELIMIT_IDLE_TTL", 10*time.Minute)
	if err := ValidatePositiveDuration(idle); err != nil {
		slog.Warn("invalid RATELIMIT_IDLE_TTL, using default",
			slog.String("value", idle.String()),
			slog.String("default", "10m"),
			slog.String("error", err.Error()))
		idle = 10 * time.Minute
	}
	cfg.IdleTTL = idle

	cleanup := GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", 5*time.Minute)
	if err := ValidatePositiveDuration(cleanup); err != nil {
		slog.Warn("invalid RATELIMIT_CLEANUP_INTERVAL, using default",
			slog.String("value", cleanup.String()),
			slog.String("default", "5m"),
			slog.String("error", err.Error()))
		cleanup = 5 * time.Minute
	}
	cfg.CleanupInterval = cleanup

	proxies, err := ParseTrustedProxies(GetEnvStringList("RATELIMIT_TRUSTED_PROXIES", nil))
	if err != nil {
		slog.Warn("invalid RATELIMIT_TRUSTED_PROXIES, trusting no proxies",
			slog.String("error", err.Error()))
		proxies = nil
	}
	cfg.TrustedProxies = proxies

	return cfg
}

// ParseTrustedProxies parses CIDR ranges or single IPs. A single IP becomes
// a /32 or /128 prefix.
//
// Example:
//
//	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.10"})
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			return nil, fmt.Errorf("CIDR cannot be empty")
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP %q: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
