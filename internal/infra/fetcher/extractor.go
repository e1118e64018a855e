// Package fetcher turns an article URL into structured article text.
// Pages are fetched with SSRF protection and parsed with go-readability,
// falling back to paragraph scraping with goquery. PDF documents are read
// with ledongthuc/pdf.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/resilience/circuitbreaker"
)

// Extractor fetches article pages and extracts title, body and publish date.
// It is safe for concurrent use.
type Extractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewExtractor creates an Extractor. Every redirect hop is validated with the
// same SSRF rules as the initial URL.
//
// With DenyPrivateIPs set, every dialed address is checked again after DNS
// resolution and proxies from the environment are ignored, so a host that
// re-resolves to a private address between validation and dial is refused.
func NewExtractor(config Config) *Extractor {
	breakerCfg := circuitbreaker.ContentFetchConfig()
	breakerCfg.Healthy = isPerURLFailure
	e := &Extractor{
		circuitBreaker: circuitbreaker.New(breakerCfg),
		config:         config,
	}

	dialer := &net.Dialer{
		Timeout:   config.Timeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	if config.DenyPrivateIPs {
		dialer.Control = denyPrivateDial
		transport.Proxy = nil
	}

	e.client = &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > e.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL, e.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return e
}

// Extract fetches rawURL and returns the extracted article.
// Every failure, including an empty body, is returned as *entity.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*entity.ExtractedArticle, error) {
	u, err := parseAndValidate(ctx, rawURL, e.config.DenyPrivateIPs)
	if err != nil {
		return nil, &entity.ExtractionError{URL: rawURL, Err: err}
	}

	article, err := circuitbreaker.Run(e.circuitBreaker, func() (*entity.ExtractedArticle, error) {
		return e.doFetch(ctx, u)
	})
	if err != nil {
		return nil, &entity.ExtractionError{URL: rawURL, Err: err}
	}

	if strings.TrimSpace(article.BodyText) == "" {
		return nil, &entity.ExtractionError{URL: rawURL, Err: entity.ErrEmptyContent}
	}
	return article, nil
}

func (e *Extractor) doFetch(ctx context.Context, u *url.URL) (*entity.ExtractedArticle, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, e.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: body read exceeded %v", ErrTimeout, e.config.Timeout)
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > e.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds limit %d bytes", ErrBodyTooLarge, e.config.MaxBodySize)
	}

	finalURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	kind, err := detectDocument(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}

	var article *entity.ExtractedArticle
	if kind == documentPDF {
		article, err = extractPDF(body, finalURL)
	} else {
		article, err = extractHTML(body, finalURL)
	}
	if err != nil {
		return nil, err
	}
	article.FinalURL = finalURL.String()
	return article, nil
}

type documentKind int

const (
	documentHTML documentKind = iota
	documentPDF
)

// detectDocument decides how body is parsed. A body with the PDF magic is
// always a PDF. Otherwise the declared media type decides, and a missing,
// malformed or generic binary type falls back to content sniffing.
// Anything that is not HTML or PDF is rejected.
func detectDocument(contentType string, body []byte) (documentKind, error) {
	if bytes.HasPrefix(body, []byte("%PDF-")) {
		return documentPDF, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(body))
	}

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return documentHTML, nil
	case "application/pdf":
		return documentPDF, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

// isPerURLFailure reports failures caused by the requested page rather
// than by the ability to fetch pages at all. Any HTTP answer proves the
// fetch path works, as does a name that does not resolve.
func isPerURLFailure(err error) bool {
	for _, target := range []error{
		ErrHTTPStatus,
		ErrInvalidURL,
		ErrPrivateIP,
		ErrTooManyRedirects,
		ErrBodyTooLarge,
		ErrUnsupportedContentType,
		ErrReadabilityFailed,
		ErrPDFFailed,
		entity.ErrEmptyContent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// CircuitOpen reports whether the content-fetch breaker is rejecting calls.
func (e *Extractor) CircuitOpen() bool { return e.circuitBreaker.IsOpen() }
