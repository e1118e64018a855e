// Package process provides the HTTP handler for POST /process_url.
package process

import (
	"news-extractor/internal/domain/entity"
	"news-extractor/internal/usecase/pipeline"
)

// Request is the body of POST /process_url.
type Request struct {
	URL      string `json:"url" example:"https://example.com/news/apple-ai-chip"`
	Country  string `json:"country,omitempty" example:"USA"`
	Category string `json:"category,omitempty" example:"Technology"`
}

// PersistenceDTO reports the best-effort push to the store.
type PersistenceDTO struct {
	Status     string `json:"status" example:"ok" enums:"ok,failed,disabled"`
	StatusCode int    `json:"status_code" example:"200"`
	Error      string `json:"error,omitempty"`
}

// ArticleDTO is the processed article returned to the client.
type ArticleDTO struct {
	URL            string         `json:"url" example:"https://example.com/news/apple-ai-chip"`
	Headline       string         `json:"headline" example:"Apple unveils new AI chip"`
	Date           string         `json:"date" example:"2024-12-01"`
	Country        string         `json:"country" example:"USA"`
	Category       string         `json:"category" example:"Technology"`
	Summary        string         `json:"summary" example:"Apple announced a new chip..."`
	SummaryBackend string         `json:"summary_backend" example:"primary" enums:"primary,fallback"`
	AirtableStatus *int           `json:"airtable_status" example:"200"`
	Persistence    PersistenceDTO `json:"persistence"`
}

// SuccessResponse wraps a processed article.
type SuccessResponse struct {
	Status string     `json:"status" example:"success"`
	Data   ArticleDTO `json:"data"`
}

// ErrorResponse is returned for every failure.
type ErrorResponse struct {
	Error string `json:"error" example:"validation error on field 'url': url is required"`
}

func toDTO(res *pipeline.Result) ArticleDTO {
	var status *int
	if res.Persistence.StatusCode > 0 {
		code := res.Persistence.StatusCode
		status = &code
	}
	return ArticleDTO{
		URL:            res.Record.URL,
		Headline:       res.Record.Headline,
		Date:           res.Record.Date,
		Country:        res.Record.Country,
		Category:       res.Record.Category,
		Summary:        res.Record.Summary,
		SummaryBackend: string(res.Summary.Backend),
		AirtableStatus: status,
		Persistence: PersistenceDTO{
			Status:     string(res.Persistence.Status),
			StatusCode: res.Persistence.StatusCode,
			Error:      res.Persistence.Error,
		},
	}
}

func (r Request) toEntity() entity.ArticleRequest {
	return entity.ArticleRequest{URL: r.URL, Country: r.Country, Category: r.Category}
}
