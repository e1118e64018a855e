// Package entity defines the domain types that flow through the article
// pipeline: the inbound request, the extracted article, its classification,
// the produced summary and the record pushed to the persistence service.
package entity

import "time"

// Default classification labels used when no keyword matches.
const (
	DefaultCountry  = "Global"
	DefaultCategory = "General"
)

// ArticleRequest is the inbound request to process a single article URL.
// Country and Category are optional client overrides.
type ArticleRequest struct {
	URL      string `json:"url"`
	Country  string `json:"country,omitempty"`
	Category string `json:"category,omitempty"`
}

// ExtractedArticle holds the structured content pulled from an article page.
// It is request scoped and never cached.
type ExtractedArticle struct {
	Title       string
	BodyText    string
	PublishDate *time.Time
	FinalURL    string
}

// Classification is the country and category assigned to an article.
type Classification struct {
	Country  string
	Category string
}

// SummaryBackend identifies which backend produced a summary.
type SummaryBackend string

const (
	BackendPrimary  SummaryBackend = "primary"
	BackendFallback SummaryBackend = "fallback"
)

// SummaryPlaceholder is returned when neither backend produced any text.
const SummaryPlaceholder = "Summary unavailable."

// SummaryResult is the output of the summarization policy.
// A placeholder summary is reported with BackendFallback.
type SummaryResult struct {
	Summary string
	Backend SummaryBackend
}

// IsPlaceholder reports whether the summary is the unavailable placeholder.
func (r SummaryResult) IsPlaceholder() bool {
	return r.Summary == SummaryPlaceholder
}
