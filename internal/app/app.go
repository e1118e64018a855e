// Package app assembles the pipeline and its dependencies from the
// environment. The API server, the Lambda handler and the backfill worker
// share it so that every entrypoint processes URLs the same way.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"news-extractor/internal/classifier"
	hhttp "news-extractor/internal/handler/http"
	"news-extractor/internal/infra/airtable"
	"news-extractor/internal/infra/fetcher"
	"news-extractor/internal/infra/notifier"
	"news-extractor/internal/infra/notion"
	"news-extractor/internal/infra/summarizer"
	"news-extractor/internal/observability/slo"
	"news-extractor/internal/repository"
	"news-extractor/internal/usecase/notify"
	"news-extractor/internal/usecase/pipeline"
	"news-extractor/internal/usecase/summarize"
	pkgconfig "news-extractor/pkg/config"
)

// Persistence backends selected by PERSISTENCE_BACKEND.
const (
	BackendAirtable = "airtable"
	BackendNotion   = "notion"
	BackendNone     = "none"
)

// ErrPendingUnsupported is returned when the backfill worker is started
// with a store that cannot list pending rows.
var ErrPendingUnsupported = errors.New("persistence backend does not support pending rows")

// Components holds the assembled pipeline and the handles needed for
// health reporting and shutdown.
type Components struct {
	Pipeline *pipeline.Service
	Checks   []hhttp.Checker

	// Pending is the store as a PendingRepository, nil unless the backend
	// is Airtable.
	Pending repository.PendingRepository

	// SLO tracks /process_url availability and latency. Long-lived
	// processes publish it with SLO.Run.
	SLO *slo.Tracker

	alerts  notify.Service
	closers []io.Closer
}

// Build reads the environment and assembles the pipeline. Missing
// credentials are never an error; malformed settings are.
func Build(ctx context.Context, logger *slog.Logger) (*Components, error) {
	c := &Components{SLO: slo.NewTracker(pkgconfig.GetEnvDuration("SLO_WINDOW", 5*time.Minute))}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("fetcher: %w", err)
	}
	extractor := fetcher.NewExtractor(fetchCfg)
	c.Checks = append(c.Checks, hhttp.BreakerCheck("extractor", true, extractor.CircuitOpen))

	cls, err := loadClassifier(logger)
	if err != nil {
		return nil, err
	}

	summaries, err := c.buildSummarizer(ctx)
	if err != nil {
		return nil, err
	}

	store, backend, err := c.buildStore(logger)
	if err != nil {
		return nil, err
	}

	c.alerts = notify.NewService([]notifier.Notifier{
		notifier.NewSlackNotifier(notifier.LoadSlackConfig(logger)),
		notifier.NewDiscordNotifier(notifier.LoadDiscordConfig(logger)),
	}, pkgconfig.GetEnvInt("ALERT_MAX_CONCURRENT", 5))
	c.Checks = append(c.Checks, alertCheck(c.alerts))

	c.Pipeline = pipeline.NewService(extractor, cls, summaries, store, backend, c.alerts)

	logger.Info("pipeline assembled",
		slog.String("persistence_backend", backend),
		slog.Int("health_checks", len(c.Checks)))
	return c, nil
}

// Close drains pending alerts and releases provider clients.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.alerts != nil {
		if err := c.alerts.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("alerts: %w", err))
		}
	}
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func loadClassifier(logger *slog.Logger) (*classifier.Classifier, error) {
	path := pkgconfig.GetEnvString("CLASSIFIER_RULES_FILE", "")
	if path == "" {
		return classifier.Default(), nil
	}
	vocab, err := classifier.LoadVocabulary(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	cls, err := classifier.New(vocab)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	logger.Info("classifier vocabulary loaded", slog.String("path", path))
	return cls, nil
}

func (c *Components) buildSummarizer(ctx context.Context) (*summarize.Service, error) {
	cfg, err := summarizer.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	primary, err := summarizer.NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	switch b := primary.(type) {
	case nil:
		c.Checks = append(c.Checks, hhttp.DisabledCheck("summarizer"))
	case interface{ CircuitOpen() bool }:
		c.Checks = append(c.Checks, hhttp.BreakerCheck("summarizer", hasProviderKey(cfg), b.CircuitOpen))
	}
	if cl, ok := primary.(io.Closer); ok {
		c.closers = append(c.closers, cl)
	}

	policy, err := summarize.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	local := summarizer.NewLocalModel(summarizer.LoadLocalConfigFromEnv())

	return summarize.NewService(primary, local, policy, summarizer.NewPrometheusSummaryMetrics()), nil
}

func hasProviderKey(cfg summarizer.Config) bool {
	switch cfg.Type {
	case summarizer.ProviderOpenAI:
		return cfg.OpenAIAPIKey != ""
	case summarizer.ProviderClaude:
		return cfg.AnthropicAPIKey != ""
	case summarizer.ProviderGemini:
		return cfg.GeminiAPIKey != ""
	default:
		return false
	}
}

func (c *Components) buildStore(logger *slog.Logger) (repository.RecordRepository, string, error) {
	backend := strings.ToLower(pkgconfig.GetEnvString("PERSISTENCE_BACKEND", BackendAirtable))

	switch backend {
	case BackendAirtable:
		cfg, err := airtable.LoadConfigFromEnv()
		if err != nil {
			return nil, "", err
		}
		client := airtable.NewClient(cfg)
		c.Pending = client
		c.Checks = append(c.Checks, hhttp.BreakerCheck("persistence", client.Configured(), client.CircuitOpen))
		return client, backend, nil

	case BackendNotion:
		store := notion.NewStore(notion.LoadConfigFromEnv(), nil)
		c.Checks = append(c.Checks, hhttp.BreakerCheck("persistence", store.Configured(), store.CircuitOpen))
		return store, backend, nil

	case BackendNone:
		logger.Warn("persistence disabled, processed articles are not stored")
		c.Checks = append(c.Checks, hhttp.DisabledCheck("persistence"))
		return nil, backend, nil

	default:
		return nil, "", fmt.Errorf("unknown PERSISTENCE_BACKEND %q (want airtable, notion or none)", backend)
	}
}

// alertCheck is degraded while any enabled alert channel has an open
// breaker, and disabled when no channel is enabled.
func alertCheck(svc notify.Service) hhttp.Checker {
	return hhttp.NewCheck("alerts", func(context.Context) hhttp.CheckStatus {
		enabled := 0
		var open []string
		for _, ch := range svc.GetChannelHealth() {
			if !ch.Enabled {
				continue
			}
			enabled++
			if ch.CircuitBreakerOpen {
				open = append(open, ch.Name)
			}
		}
		switch {
		case enabled == 0:
			return hhttp.CheckStatus{Status: hhttp.StatusDisabled}
		case len(open) > 0:
			return hhttp.CheckStatus{
				Status:  hhttp.StatusDegraded,
				Message: "circuit breaker open",
				Details: map[string]any{"channels": open},
			}
		default:
			return hhttp.CheckStatus{Status: hhttp.StatusHealthy, Details: map[string]any{"channels": enabled}}
		}
	})
}

// ShutdownTimeout bounds Close during process shutdown.
const ShutdownTimeout = 10 * time.Second
