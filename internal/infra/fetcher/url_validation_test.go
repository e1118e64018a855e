package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-extractor/internal/domain/entity"
)

func TestDenyPrivateDial(t *testing.T) {
	tests := []struct {
		address string
		wantErr error
	}{
		{"93.184.216.34:443", nil},
		{"[2606:2800:220:1:248:1893:25c8:1946]:443", nil},
		{"127.0.0.1:80", ErrPrivateIP},
		{"10.1.2.3:8080", ErrPrivateIP},
		{"192.168.0.10:80", ErrPrivateIP},
		{"169.254.169.254:80", ErrPrivateIP},
		{"[::1]:80", ErrPrivateIP},
		{"[fd00::1]:80", ErrPrivateIP},
		{"0.0.0.0:80", ErrPrivateIP},
		{"no-port", ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := denyPrivateDial("tcp", tt.address, nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetectDocument(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        documentKind
		wantErr     error
	}{
		{name: "html", contentType: "text/html; charset=utf-8", body: "<p>x</p>", want: documentHTML},
		{name: "xhtml", contentType: "application/xhtml+xml", body: "<html/>", want: documentHTML},
		{name: "pdf header", contentType: "application/pdf", body: "not checked here", want: documentPDF},
		{name: "pdf magic", contentType: "application/octet-stream", body: "%PDF-1.7", want: documentPDF},
		{name: "sniffed html", contentType: "", body: "<!DOCTYPE html><html></html>", want: documentHTML},
		{name: "octet stream html", contentType: "application/octet-stream", body: "<html><body></body></html>", want: documentHTML},
		{name: "json", contentType: "application/json", body: `{"a":1}`, wantErr: ErrUnsupportedContentType},
		{name: "plain text", contentType: "text/plain", body: "hello", wantErr: ErrUnsupportedContentType},
		{name: "image", contentType: "image/png", body: "\x89PNG\r\n\x1a\n", wantErr: ErrUnsupportedContentType},
		{name: "sniffed json", contentType: "", body: `{"a":1}`, wantErr: ErrUnsupportedContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detectDocument(tt.contentType, []byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPerURLFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found status", fmt.Errorf("%w: 404 Not Found", ErrHTTPStatus), true},
		{"server error status", fmt.Errorf("%w: 502 Bad Gateway", ErrHTTPStatus), true},
		{"invalid url", ErrInvalidURL, true},
		{"private ip", ErrPrivateIP, true},
		{"unsupported type", fmt.Errorf("%w: application/json", ErrUnsupportedContentType), true},
		{"empty content", entity.ErrEmptyContent, true},
		{"unknown host", &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}}, true},
		{"timeout", fmt.Errorf("%w: request exceeded 10s", ErrTimeout), false},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, false},
		{"dns server failure", &net.DNSError{Err: "server misbehaving", Name: "example.com"}, false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPerURLFailure(tt.err))
		})
	}
}
