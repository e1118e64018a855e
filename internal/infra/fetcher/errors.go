package fetcher

import "errors"

// Sentinel errors for article extraction. Callers classify failures with errors.Is.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrHTTPStatus indicates the page answered with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedContentType indicates the page is neither HTML nor PDF.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrReadabilityFailed indicates the HTML could not be parsed into an article.
	ErrReadabilityFailed = errors.New("content extraction failed")

	// ErrPDFFailed indicates a PDF document could not be read.
	ErrPDFFailed = errors.New("pdf extraction failed")
)
