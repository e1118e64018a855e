package entity

import "time"

// DateLayout is the calendar date format stored in the Date field.
const DateLayout = "2006-01-02"

// Record is the flat row written to the persistence service.
// All six fields are always serialised, including empty ones.
type Record struct {
	URL      string `json:"URL"`
	Headline string `json:"Headline"`
	Date     string `json:"Date"`
	Country  string `json:"Country"`
	Category string `json:"Category"`
	Summary  string `json:"Summary"`
}

// RecordPayload wraps a Record in the {"fields": {...}} envelope the
// tabular store expects.
type RecordPayload struct {
	Fields Record `json:"fields"`
}

// NewRecord assembles a Record from the pipeline outputs.
// The publish date falls back to the current UTC date.
func NewRecord(url string, article *ExtractedArticle, class Classification, summary SummaryResult, now time.Time) Record {
	date := now.UTC().Format(DateLayout)
	headline := ""
	if article != nil {
		headline = article.Title
		if article.PublishDate != nil && !article.PublishDate.IsZero() {
			date = article.PublishDate.Format(DateLayout)
		}
	}
	return Record{
		URL:      url,
		Headline: headline,
		Date:     date,
		Country:  class.Country,
		Category: class.Category,
		Summary:  summary.Summary,
	}
}

// PersistStatus is the result of a best-effort persistence push.
type PersistStatus string

const (
	PersistOK       PersistStatus = "ok"
	PersistFailed   PersistStatus = "failed"
	PersistDisabled PersistStatus = "disabled"
)

// PersistOutcome describes what happened when a Record was pushed.
// StatusCode is the store's HTTP status, zero when no response was received.
type PersistOutcome struct {
	Status     PersistStatus `json:"status"`
	StatusCode int           `json:"status_code"`
	Error      string        `json:"error,omitempty"`
}

// PendingRow is a store row that has a URL but no Headline yet.
type PendingRow struct {
	ID  string
	URL string
}
