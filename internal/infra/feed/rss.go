// Package feed reads RSS/Atom feeds used to seed pending rows.
// It uses the gofeed library to parse feed content with reliability patterns.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/resilience/retry"
)

// Item is one feed entry.
type Item struct {
	Title       string
	URL         string
	PublishedAt *time.Time
}

// RSSFetcher reads feeds with a circuit breaker and retry logic.
type RSSFetcher struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryPolicy    retry.Policy
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
func NewRSSFetcher(client *http.Client, userAgent string) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		userAgent:      userAgent,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryPolicy:    retry.Feed(),
	}
}

// Fetch retrieves and parses the feed at feedURL. Items without a link are
// skipped.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	var items []Item

	err := f.retryPolicy.Do(ctx, func() error {
		out, err := circuitbreaker.Run(f.circuitBreaker, func() ([]Item, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if circuitbreaker.IsOpenError(err) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]Item, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.StatusError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		item := Item{Title: strings.TrimSpace(it.Title), URL: link}
		if it.PublishedParsed != nil {
			item.PublishedAt = it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.PublishedAt = it.UpdatedParsed
		}
		items = append(items, item)
	}

	return items, nil
}
