package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	pkgconfig "news-extractor/pkg/config"
)

// Provider names accepted by SUMMARIZER_TYPE.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds the primary backend settings.
type Config struct {
	// Type selects the provider: openai, claude, gemini or none.
	Type string

	// Model overrides the provider's default model identifier.
	Model string

	// MaxInputChars caps the article text sent to the provider, in runes.
	MaxInputChars int

	// MaxWords is the word budget stated in the instruction.
	MaxWords int

	// MaxTokens bounds the provider response.
	MaxTokens int

	// Timeout bounds a single provider call.
	Timeout time.Duration

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	GeminiAPIKey     string
}

// LocalConfig selects and configures the fallback model.
type LocalConfig struct {
	// URL of a Hugging Face style summarization endpoint. Empty selects the
	// in-process extractive model.
	URL     string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns the primary backend defaults.
func DefaultConfig() Config {
	return Config{
		Type:          ProviderOpenAI,
		MaxInputChars: 4000,
		MaxWords:      200,
		MaxTokens:     512,
		Timeout:       60 * time.Second,
	}
}

// LoadConfigFromEnv reads the primary backend configuration. Malformed
// numeric values fall back to defaults with a warning; an unknown provider
// is an error. Missing credentials are not an error.
//
// Environment variables:
//   - SUMMARIZER_TYPE: openai, claude, gemini or none (default: openai)
//   - SUMMARIZER_MODEL: provider model identifier
//   - SUMMARIZER_MAX_INPUT_CHARS: default 4000
//   - SUMMARIZER_MAX_WORDS: default 200
//   - SUMMARIZER_MAX_TOKENS: default 512
//   - SUMMARIZER_TIMEOUT: default 60s
//   - OPENAI_API_KEY, OPENAI_BASE_URL
//   - ANTHROPIC_API_KEY, ANTHROPIC_BASE_URL
//   - GEMINI_API_KEY
func LoadConfigFromEnv() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		Type:             strings.ToLower(strings.TrimSpace(pkgconfig.GetEnvString("SUMMARIZER_TYPE", d.Type))),
		Model:            pkgconfig.GetEnvString("SUMMARIZER_MODEL", ""),
		MaxInputChars:    pkgconfig.GetEnvInt("SUMMARIZER_MAX_INPUT_CHARS", d.MaxInputChars),
		MaxWords:         pkgconfig.GetEnvInt("SUMMARIZER_MAX_WORDS", d.MaxWords),
		MaxTokens:        pkgconfig.GetEnvInt("SUMMARIZER_MAX_TOKENS", d.MaxTokens),
		Timeout:          pkgconfig.GetEnvDuration("SUMMARIZER_TIMEOUT", d.Timeout),
		OpenAIAPIKey:     pkgconfig.GetEnvString("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    pkgconfig.GetEnvString("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:  pkgconfig.GetEnvString("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: pkgconfig.GetEnvString("ANTHROPIC_BASE_URL", ""),
		GeminiAPIKey:     pkgconfig.GetEnvString("GEMINI_API_KEY", ""),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid summarizer configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Type {
	case ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("unknown SUMMARIZER_TYPE %q (want openai, claude, gemini or none)", c.Type)
	}
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max input chars must be positive, got %d", c.MaxInputChars)
	}
	if c.MaxWords <= 0 {
		return fmt.Errorf("max words must be positive, got %d", c.MaxWords)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadLocalConfigFromEnv reads LOCAL_MODEL_URL, LOCAL_MODEL_TOKEN and
// LOCAL_MODEL_TIMEOUT (default 30s).
func LoadLocalConfigFromEnv() LocalConfig {
	return LocalConfig{
		URL:     pkgconfig.GetEnvString("LOCAL_MODEL_URL", ""),
		Token:   pkgconfig.GetEnvString("LOCAL_MODEL_TOKEN", ""),
		Timeout: pkgconfig.GetEnvDuration("LOCAL_MODEL_TIMEOUT", 30*time.Second),
	}
}

// NewBackend constructs the configured primary backend. It returns a nil
// Backend for ProviderNone.
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case ProviderOpenAI:
		warnMissingKey(cfg.Type, cfg.OpenAIAPIKey, "OPENAI_API_KEY")
		return NewOpenAI(cfg), nil
	case ProviderClaude:
		warnMissingKey(cfg.Type, cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
		return NewClaude(cfg), nil
	case ProviderGemini:
		warnMissingKey(cfg.Type, cfg.GeminiAPIKey, "GEMINI_API_KEY")
		return NewGemini(ctx, cfg), nil
	default:
		slog.Info("primary summarizer disabled, all summaries use the local model")
		return nil, nil
	}
}

// NewLocalModel constructs the fallback model: the HTTP model when a URL is
// configured, the extractive model otherwise.
func NewLocalModel(cfg LocalConfig) LocalModel {
	if cfg.URL != "" {
		slog.Info("using HTTP local summarization model", slog.String("url", cfg.URL))
		return NewHTTPModel(cfg)
	}
	slog.Info("using extractive local summarization model")
	return NewExtractive()
}

func warnMissingKey(provider, key, env string) {
	if key == "" {
		slog.Warn("summarizer API key not set, primary calls will fail and use the fallback",
			slog.String("provider", provider),
			slog.String("env", env))
	}
}
