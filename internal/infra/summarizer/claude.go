package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/utils/text"
)

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	model          string
}

// NewClaude creates a Claude backend. The SDK's own retries are disabled so
// that the summarization policy alone decides how often to retry.
func NewClaude(cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithMaxRetries(0),
	}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}

	slog.Info("Initialized Claude summarizer",
		slog.String("model", model),
		slog.Int("max_words", cfg.MaxWords))

	return &Claude{
		client:         anthropic.NewClient(opts...),
		circuitBreaker: circuitbreaker.New(circuitbreaker.LLMConfig("claude-api")),
		config:         cfg,
		model:          model,
	}
}

// Name implements Backend.
func (c *Claude) Name() string { return ProviderClaude }

// Summarize makes a single Messages call through the circuit breaker.
func (c *Claude) Summarize(ctx context.Context, article string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	return callThroughBreaker(c.circuitBreaker, func() (string, error) {
		return c.doSummarize(ctx, article)
	})
}

func (c *Claude) doSummarize(ctx context.Context, article string) (string, error) {
	prompt := buildPrompt(c.config.MaxWords, text.Truncate(article, c.config.MaxInputChars))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "Summarization failed",
			slog.String("provider", ProviderClaude),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("claude: %w", ErrEmptyCompletion)
	}

	slog.DebugContext(ctx, "Summarization completed",
		slog.String("provider", ProviderClaude),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}

// CircuitOpen reports whether the breaker is rejecting calls.
func (c *Claude) CircuitOpen() bool { return c.circuitBreaker.IsOpen() }
