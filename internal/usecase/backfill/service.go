// Package backfill fills store rows that were added with only a URL, and
// seeds such rows from RSS/Atom feeds.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/infra/feed"
	"news-extractor/internal/repository"
	"news-extractor/internal/usecase/pipeline"
)

// Builder builds a record for a URL without persisting it.
type Builder interface {
	Build(ctx context.Context, req entity.ArticleRequest) (*pipeline.Built, error)
}

// FeedFetcher reads the items of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]feed.Item, error)
}

// Stats summarises a backfill pass.
type Stats struct {
	Pending  int
	Updated  int64
	Skipped  int64
	Failed   int64
	Duration time.Duration
}

// SeedStats summarises a seeding pass.
type SeedStats struct {
	Feeds      int
	FeedErrors int
	Items      int
	Inserted   int
	Duplicated int
	Failed     int
	Duration   time.Duration
}

// Service runs backfill and seeding passes against a pending-row store.
type Service struct {
	Repo    repository.PendingRepository
	Builder Builder
	Feeds   FeedFetcher
	config  Config
}

// NewService creates a backfill Service. feeds may be nil when no feed URLs
// are configured.
func NewService(repo repository.PendingRepository, builder Builder, feeds FeedFetcher, cfg Config) *Service {
	return &Service{Repo: repo, Builder: builder, Feeds: feeds, config: cfg}
}

// Run builds every pending row and writes the result back. Rows whose URL
// cannot be extracted are skipped; other per-row failures are counted.
// Only listing failures and context cancellation abort the pass.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &Stats{}

	rows, err := s.Repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending rows: %w", err)
	}
	stats.Pending = len(rows)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Parallelism)

	for _, row := range rows {
		eg.Go(func() error {
			return s.processRow(egCtx, row, stats)
		})
	}
	if err := eg.Wait(); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}

	stats.Duration = time.Since(start)
	logger.Info("backfill completed",
		slog.Int("pending", stats.Pending),
		slog.Int64("updated", stats.Updated),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

func (s *Service) processRow(ctx context.Context, row entity.PendingRow, stats *Stats) error {
	logger := slog.Default().With(slog.String("row_id", row.ID), slog.String("url", row.URL))

	built, err := s.Builder.Build(ctx, entity.ArticleRequest{URL: row.URL})
	if err != nil {
		if isCancellation(ctx, err) {
			return err
		}
		var ee *entity.ExtractionError
		var ve *entity.ValidationError
		if errors.As(err, &ee) || errors.As(err, &ve) {
			atomic.AddInt64(&stats.Skipped, 1)
			logger.Warn("skipping pending row", slog.Any("error", err))
			return nil
		}
		atomic.AddInt64(&stats.Failed, 1)
		logger.Error("failed to build pending row", slog.Any("error", err))
		return nil
	}

	if err := s.Repo.Update(ctx, row.ID, built.Record); err != nil {
		if isCancellation(ctx, err) {
			return err
		}
		atomic.AddInt64(&stats.Failed, 1)
		logger.Error("failed to update pending row", slog.Any("error", err))
		return nil
	}

	atomic.AddInt64(&stats.Updated, 1)
	logger.Info("pending row updated",
		slog.String("country", built.Record.Country),
		slog.String("category", built.Record.Category),
		slog.String("summary_backend", string(built.Summary.Backend)))
	return nil
}

// Seed inserts a pending row for every feed item whose URL is not yet in the
// store. Unreadable feeds are logged and skipped.
func (s *Service) Seed(ctx context.Context) (*SeedStats, error) {
	start := time.Now()
	stats := &SeedStats{Feeds: len(s.config.FeedURLs)}
	if s.Feeds == nil || len(s.config.FeedURLs) == 0 {
		return stats, nil
	}

	seen := make(map[string]struct{})
	for _, feedURL := range s.config.FeedURLs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		items, err := s.Feeds.Fetch(ctx, feedURL)
		if err != nil {
			stats.FeedErrors++
			slog.Warn("failed to fetch feed",
				slog.String("feed_url", feedURL),
				slog.Any("error", err))
			continue
		}

		for _, item := range items {
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}
			stats.Items++

			if err := s.seedItem(ctx, item, stats); err != nil {
				return stats, err
			}
		}
	}

	stats.Duration = time.Since(start)
	slog.Info("feed seeding completed",
		slog.Int("feeds", stats.Feeds),
		slog.Int("feed_errors", stats.FeedErrors),
		slog.Int("items", stats.Items),
		slog.Int("inserted", stats.Inserted),
		slog.Int("duplicated", stats.Duplicated),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

func (s *Service) seedItem(ctx context.Context, item feed.Item, stats *SeedStats) error {
	if err := entity.ValidateURL(item.URL); err != nil {
		stats.Failed++
		return nil
	}

	exists, err := s.Repo.ExistsByURL(ctx, item.URL)
	if err != nil {
		if isCancellation(ctx, err) {
			return err
		}
		stats.Failed++
		slog.Warn("failed to check url", slog.String("url", item.URL), slog.Any("error", err))
		return nil
	}
	if exists {
		stats.Duplicated++
		return nil
	}

	if err := s.Repo.CreatePending(ctx, item.URL); err != nil {
		if isCancellation(ctx, err) {
			return err
		}
		stats.Failed++
		slog.Warn("failed to insert pending row", slog.String("url", item.URL), slog.Any("error", err))
		return nil
	}
	stats.Inserted++
	return nil
}

// isCancellation reports whether the pass itself was cancelled. Per-request
// timeouts inside err do not count.
func isCancellation(ctx context.Context, _ error) bool {
	return ctx.Err() != nil
}
