package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"news-extractor/internal/infra/feed"
	"news-extractor/internal/resilience/retry"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Article 1</title>
      <link>https://example.com/article1</link>
      <pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>No link</title>
    </item>
    <item>
      <title> Article 2 </title>
      <link> https://example.com/article2 </link>
    </item>
  </channel>
</rss>`

const atomBody = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/atom1"/>
    <updated>2024-02-03T04:05:06Z</updated>
  </entry>
</feed>`

func TestRSSFetcher_Fetch_RSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "TestBot/1.0" {
			t.Errorf("User-Agent = %q, want TestBot/1.0", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody))
	}))
	defer server.Close()

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second}, "TestBot/1.0")
	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items length = %d, want 2 (item without link skipped)", len(items))
	}
	if items[0].URL != "https://example.com/article1" {
		t.Errorf("items[0].URL = %q", items[0].URL)
	}
	if items[0].PublishedAt == nil || !items[0].PublishedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("items[0].PublishedAt = %v", items[0].PublishedAt)
	}
	if items[1].Title != "Article 2" || items[1].URL != "https://example.com/article2" {
		t.Errorf("items[1] = %+v, want trimmed title and link", items[1])
	}
	if items[1].PublishedAt != nil {
		t.Errorf("items[1].PublishedAt = %v, want nil", items[1].PublishedAt)
	}
}

func TestRSSFetcher_Fetch_Atom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomBody))
	}))
	defer server.Close()

	items, err := feed.NewRSSFetcher(http.DefaultClient, "TestBot/1.0").Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://example.com/atom1" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].PublishedAt == nil {
		t.Error("expected updated time to be used as PublishedAt")
	}
}

func TestRSSFetcher_Fetch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := feed.NewRSSFetcher(http.DefaultClient, "TestBot/1.0").Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *retry.StatusError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected wrapped 404 HTTPError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRSSFetcher_Fetch_InvalidFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	_, err := feed.NewRSSFetcher(http.DefaultClient, "TestBot/1.0").Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected parse error")
	}
}
