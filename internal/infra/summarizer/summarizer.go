// Package summarizer provides the text-generation backends used to summarize
// articles: remote LLM providers for the primary path and local models for
// the fallback path.
package summarizer

import (
	"context"
	"errors"
	"fmt"

	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/resilience/retry"
)

var (
	// ErrEmptyCompletion indicates the provider answered without any text.
	ErrEmptyCompletion = errors.New("summarizer returned empty content")

	// ErrCircuitOpen indicates the provider's circuit breaker rejected the call.
	ErrCircuitOpen = errors.New("summarizer unavailable: circuit breaker open")

	// ErrEmptyInput indicates there was no text to summarize.
	ErrEmptyInput = errors.New("no input text")
)

// Backend is a remote summarization provider. Implementations make exactly
// one attempt per call; retries are the caller's concern.
type Backend interface {
	Summarize(ctx context.Context, text string) (string, error)
	Name() string
}

// LocalModel is a summarization model used on the fallback path.
// maxLength and minLength bound the output length in words.
type LocalModel interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
	Name() string
}

// Instruction returns the fixed summarization instruction.
func Instruction(maxWords int) string {
	return fmt.Sprintf("You are a professional news summarizer. Summarize the news article below in under %d words.", maxWords)
}

// buildPrompt joins the instruction and the article for providers that take
// a single user turn.
func buildPrompt(maxWords int, article string) string {
	return Instruction(maxWords) + "\n\n" + article
}

// callThroughBreaker runs fn through cb. Rejections by an open breaker and
// empty completions are marked permanent so they are not retried.
func callThroughBreaker(cb *circuitbreaker.CircuitBreaker, fn func() (string, error)) (string, error) {
	out, err := circuitbreaker.Run(cb, fn)
	if err != nil {
		if circuitbreaker.IsOpenError(err) {
			return "", retry.Permanent(fmt.Errorf("%w: %s", ErrCircuitOpen, cb.Name()))
		}
		if errors.Is(err, ErrEmptyCompletion) {
			return "", retry.Permanent(err)
		}
		return "", err
	}
	return out, nil
}
