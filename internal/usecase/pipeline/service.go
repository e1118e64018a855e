package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/handler/http/requestid"
	"news-extractor/internal/infra/notifier"
	"news-extractor/internal/observability/logging"
	"news-extractor/internal/observability/metrics"
	"news-extractor/internal/observability/tracing"
	"news-extractor/internal/repository"
)

// Extractor turns a URL into article text.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (*entity.ExtractedArticle, error)
}

// Classifier assigns a country and category to article text.
type Classifier interface {
	Classify(text string) entity.Classification
}

// Summarizer produces a summary. It never fails.
type Summarizer interface {
	Summarize(ctx context.Context, text string) entity.SummaryResult
}

// Alerter is notified when a persistence push fails.
type Alerter interface {
	NotifyPersistenceFailure(ctx context.Context, alert notifier.Alert)
}

// Built is a fully assembled record that has not been persisted yet.
type Built struct {
	Record         entity.Record
	Classification entity.Classification
	Summary        entity.SummaryResult
}

// Result is the outcome of processing one URL.
type Result struct {
	Built
	Persistence entity.PersistOutcome
}

// Service runs the article pipeline.
// Store and Alerter are optional: a nil Store disables persistence and a
// nil Alerter disables failure alerts.
type Service struct {
	Extractor    Extractor
	Classifier   Classifier
	Summarizer   Summarizer
	Store        repository.RecordRepository
	StoreBackend string
	Alerter      Alerter
	Tracer       trace.Tracer
	Now          func() time.Time
}

// NewService creates a pipeline Service. storeBackend labels persistence
// metrics; it is ignored when store is nil.
func NewService(
	extractor Extractor,
	classifier Classifier,
	summarizer Summarizer,
	store repository.RecordRepository,
	storeBackend string,
	alerter Alerter,
) *Service {
	return &Service{
		Extractor:    extractor,
		Classifier:   classifier,
		Summarizer:   summarizer,
		Store:        store,
		StoreBackend: storeBackend,
		Alerter:      alerter,
		Tracer:       tracing.GetTracer(),
		Now:          time.Now,
	}
}

// Process validates req, builds the record and pushes it to the store.
// Validation failures are returned as *entity.ValidationError and extraction
// failures as *entity.ExtractionError; in both cases the store is never
// called. Persistence failures are not errors: they are reported in
// Result.Persistence. A panic is recovered and returned as ErrInternal.
func (s *Service) Process(ctx context.Context, req entity.ArticleRequest) (res *Result, err error) {
	start := time.Now()
	ctx, span := s.tracer().Start(ctx, "pipeline.process",
		trace.WithAttributes(attribute.String("article.url", req.URL)))
	defer span.End()

	defer func() {
		if recovered(ctx, req.URL, recover()) {
			res, err = nil, ErrInternal
		}
		metrics.RecordPipelineOutcome(outcomeLabel(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	built, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome := s.persist(ctx, built.Record)
	span.SetAttributes(attribute.String("persistence.status", string(outcome.Status)))

	return &Result{Built: *built, Persistence: outcome}, nil
}

// Build runs every step except persistence. Like Process it returns
// ErrInternal for a recovered panic.
func (s *Service) Build(ctx context.Context, req entity.ArticleRequest) (built *Built, err error) {
	ctx, span := s.tracer().Start(ctx, "pipeline.build",
		trace.WithAttributes(attribute.String("article.url", req.URL)))
	defer span.End()

	defer func() {
		if recovered(ctx, req.URL, recover()) {
			built, err = nil, ErrInternal
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return s.build(ctx, req)
}

// recovered logs r with its stack and reports whether a panic happened.
// It must be given recover() from the deferring function itself.
func recovered(ctx context.Context, url string, r any) bool {
	if r == nil {
		return false
	}
	logging.WithRequestContext(ctx, slog.Default()).Error("pipeline panic recovered",
		slog.Any("panic", r),
		slog.String("url", url),
		slog.String("stack", string(debug.Stack())))
	return true
}

func (s *Service) build(ctx context.Context, req entity.ArticleRequest) (*Built, error) {
	logger := logging.WithRequestContext(ctx, slog.Default())

	if err := req.Validate(); err != nil {
		return nil, err
	}

	article, err := s.extract(ctx, req.URL)
	if err != nil {
		logger.Warn("article extraction failed",
			slog.String("url", req.URL),
			slog.Any("error", err))
		return nil, err
	}

	class := s.classify(ctx, article.BodyText, req)

	_, sumSpan := s.tracer().Start(ctx, "pipeline.summarize")
	summary := s.Summarizer.Summarize(ctx, article.BodyText)
	sumSpan.SetAttributes(
		attribute.String("summary.backend", string(summary.Backend)),
		attribute.Bool("summary.placeholder", summary.IsPlaceholder()),
	)
	sumSpan.End()

	record := entity.NewRecord(req.URL, article, class, summary, s.now())

	logger.Info("article built",
		slog.String("url", req.URL),
		slog.String("country", record.Country),
		slog.String("category", record.Category),
		slog.String("summary_backend", string(summary.Backend)))

	return &Built{Record: record, Classification: class, Summary: summary}, nil
}

func (s *Service) extract(ctx context.Context, rawURL string) (*entity.ExtractedArticle, error) {
	ctx, span := s.tracer().Start(ctx, "pipeline.extract")
	defer span.End()

	start := time.Now()
	article, err := s.Extractor.Extract(ctx, rawURL)
	if err == nil && (article == nil || strings.TrimSpace(article.BodyText) == "") {
		err = entity.ErrEmptyContent
	}
	if err != nil {
		metrics.RecordExtractionFailure(err, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		var ee *entity.ExtractionError
		if !errors.As(err, &ee) {
			err = &entity.ExtractionError{URL: rawURL, Err: err}
		}
		return nil, err
	}

	metrics.RecordExtractionSuccess(time.Since(start))
	span.SetAttributes(attribute.Int("article.body_length", len(article.BodyText)))
	return article, nil
}

func (s *Service) classify(ctx context.Context, text string, req entity.ArticleRequest) entity.Classification {
	_, span := s.tracer().Start(ctx, "pipeline.classify")
	defer span.End()

	class := s.Classifier.Classify(text)
	if v := strings.TrimSpace(req.Country); v != "" {
		class.Country = v
	}
	if v := strings.TrimSpace(req.Category); v != "" {
		class.Category = v
	}

	metrics.RecordClassification(class.Country, class.Category)
	span.SetAttributes(
		attribute.String("article.country", class.Country),
		attribute.String("article.category", class.Category),
	)
	return class
}

// persist pushes rec and converts the result into an outcome. Failures are
// logged, counted and alerted but never returned.
func (s *Service) persist(ctx context.Context, rec entity.Record) entity.PersistOutcome {
	if s.Store == nil {
		metrics.RecordPersistence("none", string(entity.PersistDisabled), 0)
		return entity.PersistOutcome{Status: entity.PersistDisabled}
	}

	ctx, span := s.tracer().Start(ctx, "pipeline.persist",
		trace.WithAttributes(attribute.String("persistence.backend", s.StoreBackend)))
	defer span.End()

	start := time.Now()
	status, err := s.Store.Create(ctx, rec)
	elapsed := time.Since(start)

	if err == nil {
		metrics.RecordPersistence(s.StoreBackend, string(entity.PersistOK), elapsed)
		span.SetAttributes(attribute.Int("persistence.status_code", status))
		return entity.PersistOutcome{Status: entity.PersistOK, StatusCode: status}
	}

	outcome := entity.OutcomeFromError(err)
	metrics.RecordPersistence(s.StoreBackend, string(outcome.Status), elapsed)
	span.RecordError(err)
	span.SetStatus(codes.Error, "persistence failed")
	span.SetAttributes(attribute.Int("persistence.status_code", outcome.StatusCode))

	logging.WithRequestContext(ctx, slog.Default()).Error("persistence failed",
		slog.String("url", rec.URL),
		slog.String("backend", s.StoreBackend),
		slog.Int("status_code", outcome.StatusCode),
		slog.Any("error", err))

	if s.Alerter != nil {
		s.Alerter.NotifyPersistenceFailure(ctx, notifier.Alert{
			RequestID:  requestid.FromContext(ctx),
			Record:     rec,
			Outcome:    outcome,
			OccurredAt: s.now(),
		})
	}
	return outcome
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer == nil {
		return tracing.GetTracer()
	}
	return s.Tracer
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func outcomeLabel(err error) string {
	var ve *entity.ValidationError
	var ee *entity.ExtractionError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &ve):
		return metrics.OutcomeInvalid
	case errors.As(err, &ee):
		return metrics.OutcomeExtractionFailed
	default:
		return metrics.OutcomeInternalError
	}
}

