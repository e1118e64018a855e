package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"news-extractor/internal/resilience/retry"
)

// HTTPModel calls a local inference server that speaks the Hugging Face
// summarization pipeline format.
type HTTPModel struct {
	endpoint string
	token    string
	client   *http.Client
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

// NewHTTPModel creates an HTTPModel.
func NewHTTPModel(cfg LocalConfig) *HTTPModel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPModel{
		endpoint: cfg.URL,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements LocalModel.
func (m *HTTPModel) Name() string { return "http" }

// Summarize sends one chunk to the model with deterministic decoding.
func (m *HTTPModel) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}

	payload, err := json.Marshal(hfRequest{
		Inputs:     input,
		Parameters: hfParameters{MaxLength: maxLength, MinLength: minLength, DoSample: false},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local model request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read local model response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &retry.StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var out []hfSummary
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode local model response: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].SummaryText) == "" {
		return "", fmt.Errorf("local model: %w", ErrEmptyCompletion)
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}
