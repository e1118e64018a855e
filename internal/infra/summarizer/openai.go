package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/utils/text"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes with any OpenAI-compatible chat completion endpoint.
// OPENAI_BASE_URL points it at compatible providers such as DeepSeek.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	model          string
}

// NewOpenAI creates an OpenAI backend.
func NewOpenAI(cfg Config) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.String("model", model),
		slog.String("base_url", clientConfig.BaseURL),
		slog.Int("max_words", cfg.MaxWords))

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: circuitbreaker.New(circuitbreaker.LLMConfig("openai-api")),
		config:         cfg,
		model:          model,
	}
}

// Name implements Backend.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Summarize makes a single chat completion call through the circuit breaker.
func (o *OpenAI) Summarize(ctx context.Context, article string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	return callThroughBreaker(o.circuitBreaker, func() (string, error) {
		return o.doSummarize(ctx, article)
	})
}

func (o *OpenAI) doSummarize(ctx context.Context, article string) (string, error) {
	input := text.Truncate(article, o.config.MaxInputChars)

	slog.DebugContext(ctx, "Starting summarization",
		slog.String("provider", ProviderOpenAI),
		slog.Int("input_length", text.CountRunes(input)))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Instruction(o.config.MaxWords)},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "Summarization failed",
			slog.String("provider", ProviderOpenAI),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w (no choices)", ErrEmptyCompletion)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyCompletion)
	}

	slog.DebugContext(ctx, "Summarization completed",
		slog.String("provider", ProviderOpenAI),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}

// CircuitOpen reports whether the breaker is rejecting calls.
func (o *OpenAI) CircuitOpen() bool { return o.circuitBreaker.IsOpen() }
