package backfill

import (
	"fmt"
	"net/url"

	"news-extractor/pkg/config"
)

// Config controls a backfill pass.
type Config struct {
	// Parallelism bounds how many pending rows are built at once.
	Parallelism int

	// FeedURLs are RSS/Atom feeds whose items are seeded as pending rows.
	// Seeding is skipped when empty.
	FeedURLs []string
}

// DefaultConfig returns the default backfill configuration.
func DefaultConfig() Config {
	return Config{Parallelism: 3}
}

// LoadConfigFromEnv reads BACKFILL_PARALLELISM and FEED_URLS (comma separated).
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Parallelism = config.GetEnvInt("BACKFILL_PARALLELISM", cfg.Parallelism)
	cfg.FeedURLs = config.GetEnvStringList("FEED_URLS", nil)
	return cfg, cfg.Validate()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("backfill parallelism must be between 1 and 50, got %d", c.Parallelism)
	}
	for _, raw := range c.FeedURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid feed url %q", raw)
		}
	}
	return nil
}
