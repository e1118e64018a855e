package summarize

import (
	"fmt"
	"time"

	pkgconfig "news-extractor/pkg/config"
)

// Config controls the retry and fallback policy.
type Config struct {
	// RetryAttempts is the total number of primary attempts.
	RetryAttempts int

	// RetryDelay is the fixed wait between primary attempts.
	RetryDelay time.Duration

	// ChunkSize is the fallback chunk size in runes.
	ChunkSize int

	// MaxChunks caps how many chunks the fallback summarizes.
	MaxChunks int

	// MaxLength and MinLength bound each chunk summary, in words.
	MaxLength int
	MinLength int
}

// DefaultConfig returns the default policy: two primary attempts two seconds
// apart, then up to three 1024-rune chunks through the local model.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 2,
		RetryDelay:    2 * time.Second,
		ChunkSize:     1024,
		MaxChunks:     3,
		MaxLength:     200,
		MinLength:     50,
	}
}

// LoadConfigFromEnv reads SUMMARIZER_RETRY_ATTEMPTS, SUMMARIZER_RETRY_DELAY,
// FALLBACK_CHUNK_SIZE, FALLBACK_MAX_CHUNKS, FALLBACK_MAX_LENGTH and
// FALLBACK_MIN_LENGTH.
func LoadConfigFromEnv() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		RetryAttempts: pkgconfig.GetEnvInt("SUMMARIZER_RETRY_ATTEMPTS", d.RetryAttempts),
		RetryDelay:    pkgconfig.GetEnvDuration("SUMMARIZER_RETRY_DELAY", d.RetryDelay),
		ChunkSize:     pkgconfig.GetEnvInt("FALLBACK_CHUNK_SIZE", d.ChunkSize),
		MaxChunks:     pkgconfig.GetEnvInt("FALLBACK_MAX_CHUNKS", d.MaxChunks),
		MaxLength:     pkgconfig.GetEnvInt("FALLBACK_MAX_LENGTH", d.MaxLength),
		MinLength:     pkgconfig.GetEnvInt("FALLBACK_MIN_LENGTH", d.MinLength),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid summarize configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the policy bounds.
func (c Config) Validate() error {
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %v", c.RetryDelay)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("max chunks must be positive, got %d", c.MaxChunks)
	}
	if c.MinLength < 0 || c.MaxLength <= 0 || c.MinLength > c.MaxLength {
		return fmt.Errorf("invalid length bounds: min %d, max %d", c.MinLength, c.MaxLength)
	}
	return nil
}
