package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/utils/text"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini summarizes with Google's Gemini API. The client is created on first
// use so that a missing key does not fail startup.
type Gemini struct {
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	model          string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini backend.
func NewGemini(_ context.Context, cfg Config) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	slog.Info("Initialized Gemini summarizer",
		slog.String("model", model),
		slog.Int("max_words", cfg.MaxWords))

	return &Gemini{
		circuitBreaker: circuitbreaker.New(circuitbreaker.LLMConfig("gemini-api")),
		config:         cfg,
		model:          model,
	}
}

// Name implements Backend.
func (g *Gemini) Name() string { return ProviderGemini }

// Close releases the underlying client.
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

// Summarize makes a single GenerateContent call through the circuit breaker.
func (g *Gemini) Summarize(ctx context.Context, article string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	return callThroughBreaker(g.circuitBreaker, func() (string, error) {
		return g.doSummarize(ctx, article)
	})
}

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.config.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *Gemini) doSummarize(ctx context.Context, article string) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(int32(g.config.MaxTokens))

	prompt := buildPrompt(g.config.MaxWords, text.Truncate(article, g.config.MaxInputChars))

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	duration := time.Since(start)
	if err != nil {
		slog.WarnContext(ctx, "Summarization failed",
			slog.String("provider", ProviderGemini),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	summary := geminiText(resp)
	if summary == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}

	slog.DebugContext(ctx, "Summarization completed",
		slog.String("provider", ProviderGemini),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}

// CircuitOpen reports whether the breaker is rejecting calls.
func (g *Gemini) CircuitOpen() bool { return g.circuitBreaker.IsOpen() }
