package lambda

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Handle(t *testing.T) {
	var got *http.Request
	var gotBody string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Accept")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	event := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/process_url",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer abc",
		},
		QueryStringParameters: map[string]string{"debug": "1"},
		Body:                  `{"url":"https://example.com/a"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.7"},
		},
	}

	resp, err := Adapter{Handler: h}.Handle(context.Background(), event)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/process_url", got.URL.Path)
	assert.Equal(t, "1", got.URL.Query().Get("debug"))
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	assert.Equal(t, "203.0.113.7:0", got.RemoteAddr)
	assert.Equal(t, `{"url":"https://example.com/a"}`, gotBody)
	assert.Equal(t, int64(len(gotBody)), got.ContentLength)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"status":"success"}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, []string{"Origin", "Accept"}, resp.MultiValueHeaders["Vary"])
}

func TestAdapter_Base64Body(t *testing.T) {
	var gotBody string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte{0xff, 0xfe})
	})

	resp, err := Adapter{Handler: h}.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/",
		Body:            base64.StdEncoding.EncodeToString([]byte("hello")),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", gotBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe}), resp.Body)
}

func TestAdapter_MalformedBase64(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	resp, err := Adapter{Handler: h}.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/process_url",
		Body:            "%%%not-base64",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdapter_EmptyResponseDefaultsTo200(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	resp, err := Adapter{Handler: h}.Handle(context.Background(), events.APIGatewayProxyRequest{Path: "/live"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
}
