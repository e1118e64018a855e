package metrics

import (
	"errors"
	"time"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/infra/fetcher"
	"news-extractor/internal/resilience/circuitbreaker"
)

// Pipeline outcome labels.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalid          = "invalid"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomeInternalError    = "internal_error"
)

// RecordPipelineOutcome records the result and total duration of processing one URL.
func RecordPipelineOutcome(outcome string, duration time.Duration) {
	PipelineRequestsTotal.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(duration.Seconds())
}

// RecordExtractionSuccess records the duration of a successful extraction.
func RecordExtractionSuccess(duration time.Duration) {
	ExtractionDuration.Observe(duration.Seconds())
}

// RecordExtractionFailure records a failed extraction. The reason label is
// derived from the error so that cardinality stays bounded.
func RecordExtractionFailure(err error, duration time.Duration) {
	ExtractionDuration.Observe(duration.Seconds())
	ExtractionFailuresTotal.WithLabelValues(ExtractionReason(err)).Inc()
}

// ExtractionReason maps an extraction error onto a fixed label set.
func ExtractionReason(err error) string {
	switch {
	case errors.Is(err, fetcher.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, fetcher.ErrPrivateIP):
		return "private_ip"
	case errors.Is(err, fetcher.ErrTimeout):
		return "timeout"
	case errors.Is(err, fetcher.ErrTooManyRedirects):
		return "too_many_redirects"
	case errors.Is(err, fetcher.ErrBodyTooLarge):
		return "too_large"
	case errors.Is(err, fetcher.ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, fetcher.ErrUnsupportedContentType):
		return "unsupported_type"
	case errors.Is(err, fetcher.ErrReadabilityFailed), errors.Is(err, fetcher.ErrPDFFailed):
		return "parse_failed"
	case errors.Is(err, entity.ErrEmptyContent):
		return "empty_content"
	case circuitbreaker.IsOpenError(err):
		return "circuit_open"
	default:
		return "fetch_failed"
	}
}

// RecordClassification records the labels assigned to an article.
func RecordClassification(country, category string) {
	ClassificationsTotal.WithLabelValues(country, category).Inc()
}

// RecordPersistence records a persistence push for backend with its status.
// Disabled pushes have no duration.
func RecordPersistence(backend, status string, duration time.Duration) {
	PersistenceTotal.WithLabelValues(backend, status).Inc()
	if duration > 0 {
		PersistenceDuration.WithLabelValues(backend).Observe(duration.Seconds())
	}
}
