package airtable

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "news-extractor/pkg/config"
)

// DefaultBaseURL is the Airtable REST API root.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Config holds the Airtable connection settings.
type Config struct {
	APIKey    string
	BaseID    string
	TableName string

	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond is the client-side rate limit. Airtable allows five
	// requests per second per base.
	RequestsPerSecond float64
}

// DefaultConfig returns the defaults without credentials.
func DefaultConfig() Config {
	return Config{
		TableName:         "Articles",
		BaseURL:           DefaultBaseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 5,
	}
}

// LoadConfigFromEnv reads AIRTABLE_API_KEY, AIRTABLE_BASE_ID,
// AIRTABLE_TABLE_NAME, AIRTABLE_BASE_URL, AIRTABLE_TIMEOUT and
// AIRTABLE_RATE_LIMIT. Missing credentials are not an error here.
func LoadConfigFromEnv() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		APIKey:            pkgconfig.GetEnvString("AIRTABLE_API_KEY", ""),
		BaseID:            pkgconfig.GetEnvString("AIRTABLE_BASE_ID", ""),
		TableName:         pkgconfig.GetEnvString("AIRTABLE_TABLE_NAME", d.TableName),
		BaseURL:           pkgconfig.GetEnvString("AIRTABLE_BASE_URL", d.BaseURL),
		Timeout:           pkgconfig.GetEnvDuration("AIRTABLE_TIMEOUT", d.Timeout),
		RequestsPerSecond: pkgconfig.GetEnvFloat("AIRTABLE_RATE_LIMIT", d.RequestsPerSecond),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid airtable configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the non-credential settings.
func (c Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("base url %q: %w", c.BaseURL, err)
	}
	if c.TableName == "" {
		return fmt.Errorf("table name is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RequestsPerSecond)
	}
	return nil
}

// HasCredentials reports whether both the API key and base ID are set.
func (c Config) HasCredentials() bool {
	return c.APIKey != "" && c.BaseID != ""
}
