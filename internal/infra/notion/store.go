// Package notion implements a create-only record repository backed by a
// Notion database.
package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jomei/notionapi"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/resilience/circuitbreaker"
	"news-extractor/internal/utils/text"
	pkgconfig "news-extractor/pkg/config"
)

// richTextLimit is Notion's maximum length for a single rich text object.
const richTextLimit = 2000

// ErrMissingCredentials is returned when the token or database ID is unset.
var ErrMissingCredentials = errors.New("notion credentials not configured")

// Config holds the Notion connection settings.
type Config struct {
	Token      string
	DatabaseID string
	Timeout    time.Duration
}

// LoadConfigFromEnv reads NOTION_TOKEN, NOTION_DATABASE_ID and NOTION_TIMEOUT.
func LoadConfigFromEnv() Config {
	return Config{
		Token:      pkgconfig.GetEnvString("NOTION_TOKEN", ""),
		DatabaseID: pkgconfig.GetEnvString("NOTION_DATABASE_ID", ""),
		Timeout:    pkgconfig.GetEnvDuration("NOTION_TIMEOUT", 15*time.Second),
	}
}

// Store creates one database page per record. The database must have a
// title property named Headline, a URL property, a Date property, Country
// and Category selects and a Summary rich text property.
type Store struct {
	client         *notionapi.Client
	databaseID     notionapi.DatabaseID
	configured     bool
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewStore creates a Store. httpClient may be nil.
func NewStore(cfg Config, httpClient *http.Client) *Store {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	configured := cfg.Token != "" && cfg.DatabaseID != ""
	if !configured {
		slog.Warn("notion credentials not set, persistence calls will fail")
	}
	return &Store{
		client:         notionapi.NewClient(notionapi.Token(cfg.Token), notionapi.WithHTTPClient(httpClient)),
		databaseID:     notionapi.DatabaseID(cfg.DatabaseID),
		configured:     configured,
		circuitBreaker: circuitbreaker.New(circuitbreaker.PersistenceConfig("notion")),
	}
}

// Create implements repository.RecordRepository.
func (s *Store) Create(ctx context.Context, rec entity.Record) (int, error) {
	if !s.configured {
		return 0, &entity.PersistenceError{Err: ErrMissingCredentials}
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: properties(rec),
	}

	_, err := circuitbreaker.Run(s.circuitBreaker, func() (*notionapi.Page, error) {
		return s.client.Page.Create(ctx, req)
	})
	if err != nil {
		status := 0
		var apiErr *notionapi.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		return status, &entity.PersistenceError{StatusCode: status, Err: fmt.Errorf("create page: %w", err)}
	}
	return http.StatusOK, nil
}

func properties(rec entity.Record) notionapi.Properties {
	props := notionapi.Properties{
		"Headline": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(rec.Headline),
		},
		"URL": notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  rec.URL,
		},
		"Country": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: rec.Country},
		},
		"Category": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: rec.Category},
		},
		"Summary": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(rec.Summary),
		},
	}

	if t, err := time.Parse(entity.DateLayout, rec.Date); err == nil {
		d := notionapi.Date(t)
		props["Date"] = notionapi.DateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: &notionapi.DateObject{Start: &d},
		}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: text.Truncate(s, richTextLimit)}},
	}
}

// CircuitOpen reports whether the Notion circuit breaker is rejecting calls.
func (s *Store) CircuitOpen() bool { return s.circuitBreaker.IsOpen() }

// Configured reports whether the token and database ID are set.
func (s *Store) Configured() bool { return s.configured }
