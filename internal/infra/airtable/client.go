// Package airtable implements the record repositories on top of the Airtable
// REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/resilience/circuitbreaker"
)

// ErrMissingCredentials is returned for every call when the API key or base
// ID is not configured.
var ErrMissingCredentials = errors.New("airtable credentials not configured")

// maxErrorBody caps how much of an error response is kept in the error message.
const maxErrorBody = 512

// Client talks to one Airtable table. It is safe for concurrent use.
type Client struct {
	config         Config
	httpClient     *http.Client
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a Client. Credentials are checked per call, not here.
func NewClient(cfg Config) *Client {
	if !cfg.HasCredentials() {
		slog.Warn("airtable credentials not set, persistence calls will fail",
			slog.Bool("api_key_set", cfg.APIKey != ""),
			slog.Bool("base_id_set", cfg.BaseID != ""))
	}
	return &Client{
		config:         cfg,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		circuitBreaker: circuitbreaker.New(circuitbreaker.PersistenceConfig("airtable")),
	}
}

type recordResponse struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []recordResponse `json:"records"`
	Offset  string           `json:"offset"`
}

type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

// Create implements repository.RecordRepository.
func (c *Client) Create(ctx context.Context, rec entity.Record) (int, error) {
	return c.do(ctx, http.MethodPost, c.tableURL(""), entity.RecordPayload{Fields: rec}, nil)
}

// CreatePending inserts a row holding only the URL. The other fields are left
// out so that typed columns such as Date stay empty.
func (c *Client) CreatePending(ctx context.Context, articleURL string) error {
	payload := map[string]map[string]string{"fields": {"URL": articleURL}}
	_, err := c.do(ctx, http.MethodPost, c.tableURL(""), payload, nil)
	return err
}

// Update overwrites the fields of row id.
func (c *Client) Update(ctx context.Context, id string, rec entity.Record) error {
	if id == "" {
		return &entity.ValidationError{Field: "id", Message: "record id is required"}
	}
	_, err := c.do(ctx, http.MethodPatch, c.tableURL(id), entity.RecordPayload{Fields: rec}, nil)
	return err
}

// ListPending returns rows with a URL and an empty Headline, following
// pagination offsets until the table is exhausted.
func (c *Client) ListPending(ctx context.Context) ([]entity.PendingRow, error) {
	var rows []entity.PendingRow
	offset := ""
	for {
		q := url.Values{}
		q.Set("filterByFormula", pendingFormula)
		q.Set("pageSize", "100")
		q.Add("fields[]", "URL")
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if _, err := c.do(ctx, http.MethodGet, c.tableURL("")+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Records {
			u, _ := r.Fields["URL"].(string)
			if strings.TrimSpace(u) == "" {
				continue
			}
			rows = append(rows, entity.PendingRow{ID: r.ID, URL: strings.TrimSpace(u)})
		}
		if page.Offset == "" {
			return rows, nil
		}
		offset = page.Offset
	}
}

// ExistsByURL reports whether a row with exactly this URL exists.
func (c *Client) ExistsByURL(ctx context.Context, articleURL string) (bool, error) {
	q := url.Values{}
	q.Set("filterByFormula", urlFormula(articleURL))
	q.Set("maxRecords", "1")
	q.Add("fields[]", "URL")

	var page listResponse
	if _, err := c.do(ctx, http.MethodGet, c.tableURL("")+"?"+q.Encode(), nil, &page); err != nil {
		return false, err
	}
	return len(page.Records) > 0, nil
}

func (c *Client) tableURL(recordID string) string {
	u := strings.TrimRight(c.config.BaseURL, "/") + "/" + url.PathEscape(c.config.BaseID) + "/" + url.PathEscape(c.config.TableName)
	if recordID != "" {
		u += "/" + url.PathEscape(recordID)
	}
	return u
}

// do sends one rate-limited request through the circuit breaker and decodes
// the response into out when out is non-nil. All errors are
// *entity.PersistenceError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) (int, error) {
	if !c.config.HasCredentials() {
		return 0, &entity.PersistenceError{Err: ErrMissingCredentials}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &entity.PersistenceError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	start := time.Now()
	status, err := circuitbreaker.Run(c.circuitBreaker, func() (int, error) {
		return c.send(ctx, method, endpoint, body, out)
	})
	if err != nil {
		var pe *entity.PersistenceError
		if !errors.As(err, &pe) {
			pe = &entity.PersistenceError{Err: err}
		}
		slog.WarnContext(ctx, "airtable request failed",
			slog.String("method", method),
			slog.Int("status", pe.StatusCode),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", pe))
		return pe.StatusCode, pe
	}

	slog.DebugContext(ctx, "airtable request completed",
		slog.String("method", method),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)))
	return status, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &entity.PersistenceError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorMessage(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, &entity.PersistenceError{
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	}
	return resp.StatusCode, nil
}

// errorMessage extracts Airtable's error payload, which is either a string or
// an object with type and message.
func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Error) > 0 {
		var s string
		if json.Unmarshal(er.Error, &s) == nil {
			return s
		}
		var obj struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(er.Error, &obj) == nil && (obj.Type != "" || obj.Message != "") {
			return strings.TrimSpace(obj.Type + ": " + obj.Message)
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}

// Configured reports whether credentials are set.
func (c *Client) Configured() bool { return c.config.HasCredentials() }

// CircuitOpen reports whether the Airtable circuit breaker is rejecting calls.
func (c *Client) CircuitOpen() bool { return c.circuitBreaker.IsOpen() }
