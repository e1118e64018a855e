// Package summarize implements the two-tier summarization policy: a remote
// primary backend with bounded retries, then a chunked local model, then a
// fixed placeholder. Summarize never returns an error.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/infra/summarizer"
	"news-extractor/internal/resilience/retry"
	"news-extractor/internal/utils/text"
)

// errFallbackEmpty means every processed chunk produced an empty summary.
var errFallbackEmpty = errors.New("fallback produced no text")

// Primary is the remote summarization backend. A nil Primary sends every
// request straight to the fallback.
type Primary interface {
	Summarize(ctx context.Context, text string) (string, error)
	Name() string
}

// Service applies the summarization policy.
type Service struct {
	primary Primary
	local   summarizer.LocalModel
	config  Config
	metrics summarizer.SummaryMetricsRecorder
}

// NewService creates a Service. local is required. A nil primary sends every
// article to the fallback and a nil metrics recorder disables metrics.
func NewService(primary Primary, local summarizer.LocalModel, cfg Config, metrics summarizer.SummaryMetricsRecorder) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		primary: primary,
		local:   local,
		config:  cfg,
		metrics: metrics,
	}
}

// Summarize returns a summary of article. The result always carries a
// non-empty Summary: the primary output, the fallback output, or
// entity.SummaryPlaceholder.
func (s *Service) Summarize(ctx context.Context, article string) entity.SummaryResult {
	start := time.Now()
	result := s.summarize(ctx, article)

	s.metrics.RecordDuration(time.Since(start))
	s.metrics.RecordBackend(string(result.Backend))
	s.metrics.RecordLength(text.CountRunes(result.Summary))
	if result.IsPlaceholder() {
		s.metrics.RecordPlaceholder()
	}
	return result
}

func (s *Service) summarize(ctx context.Context, article string) entity.SummaryResult {
	if strings.TrimSpace(article) == "" {
		return placeholder()
	}

	if s.primary != nil {
		summary, err := s.callPrimary(ctx, article)
		if err == nil {
			return entity.SummaryResult{Summary: summary, Backend: entity.BackendPrimary}
		}
		s.metrics.RecordPrimaryFailure(s.primary.Name())
		slog.WarnContext(ctx, "primary summarizer failed, using fallback",
			slog.String("provider", s.primary.Name()),
			slog.Any("error", err))
	}

	summary, err := s.fallback(ctx, article)
	if err != nil {
		slog.ErrorContext(ctx, "fallback summarizer failed, using placeholder",
			slog.String("model", s.local.Name()),
			slog.Any("error", err))
		return placeholder()
	}
	return entity.SummaryResult{Summary: summary, Backend: entity.BackendFallback}
}

func (s *Service) callPrimary(ctx context.Context, article string) (string, error) {
	var summary string
	err := retry.Fixed(s.config.RetryAttempts, s.config.RetryDelay).Do(ctx, func() error {
		out, err := s.primary.Summarize(ctx, article)
		if err != nil {
			return err
		}
		if strings.TrimSpace(out) == "" {
			return retry.Permanent(summarizer.ErrEmptyCompletion)
		}
		summary = strings.TrimSpace(out)
		return nil
	})
	return summary, err
}

// fallback summarizes the first MaxChunks chunks independently and joins the
// non-empty results. Any model error aborts the fallback.
func (s *Service) fallback(ctx context.Context, article string) (string, error) {
	chunks := text.Chunk(article, s.config.ChunkSize)
	if len(chunks) > s.config.MaxChunks {
		chunks = chunks[:s.config.MaxChunks]
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		out, err := s.local.Summarize(ctx, chunk, s.config.MaxLength, s.config.MinLength)
		if err != nil {
			return "", fmt.Errorf("chunk %d: %w", i, err)
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}
	if len(parts) == 0 {
		return "", errFallbackEmpty
	}
	return strings.Join(parts, " "), nil
}

func placeholder() entity.SummaryResult {
	return entity.SummaryResult{Summary: entity.SummaryPlaceholder, Backend: entity.BackendFallback}
}

type noopMetrics struct{}

func (noopMetrics) RecordLength(int)             {}
func (noopMetrics) RecordDuration(time.Duration) {}
func (noopMetrics) RecordBackend(string)         {}
func (noopMetrics) RecordPrimaryFailure(string)  {}
func (noopMetrics) RecordPlaceholder()           {}
