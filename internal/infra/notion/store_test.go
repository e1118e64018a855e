package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-extractor/internal/domain/entity"
)

// rewriteTransport sends every request to the test server.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	cfg := Config{Token: "secret_abc", DatabaseID: "db-123", Timeout: 5 * time.Second}
	return NewStore(cfg, &http.Client{Transport: rewriteTransport{target: target}})
}

func record() entity.Record {
	return entity.Record{
		URL:      "https://example.com/a",
		Headline: "Apple unveils new AI chip",
		Date:     "2024-05-01",
		Country:  "USA",
		Category: "Technology",
		Summary:  strings.Repeat("s", 2500),
	}
}

func TestStore_Create(t *testing.T) {
	var body map[string]any
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1","properties":{}}`))
	})

	status, err := store.Create(context.Background(), record())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	props, ok := body["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"Headline", "URL", "Date", "Country", "Category", "Summary"} {
		assert.Contains(t, props, name)
	}
	parent, ok := body["parent"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "db-123", parent["database_id"])
}

func TestStore_Create_APIError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"Country is not a property"}`))
	})

	status, err := store.Create(context.Background(), record())

	require.Error(t, err)
	var pe *entity.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStore_Create_MissingCredentials(t *testing.T) {
	store := NewStore(Config{}, nil)

	_, err := store.Create(context.Background(), record())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestProperties(t *testing.T) {
	props := properties(record())

	summary, ok := props["Summary"].(notionapi.RichTextProperty)
	require.True(t, ok)
	assert.Len(t, summary.RichText[0].Text.Content, richTextLimit)

	date, ok := props["Date"].(notionapi.DateProperty)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", time.Time(*date.Date.Start).Format(entity.DateLayout))

	rec := record()
	rec.Date = ""
	assert.NotContains(t, properties(rec), "Date")
}
