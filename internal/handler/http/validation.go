package http

import (
	"mime"
	"net/http"

	"news-extractor/internal/handler/http/respond"
)

const (
	maxAuthorizationHeader = 8 << 10
	maxPathLength          = 2048
)

// InputValidation returns middleware that rejects oversized or mistyped
// requests before they reach a handler:
//   - Authorization header over 8KB → 400
//   - path over 2KB → 414
//   - a request body that is not JSON → 415
//
// Bodies are capped at maxBody bytes; reading past it fails in the handler.
func InputValidation(maxBody int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthorizationHeader {
				respond.Error(w, http.StatusBadRequest, "authorization header too large")
				return
			}

			if len(r.URL.Path) > maxPathLength {
				respond.Error(w, http.StatusRequestURITooLong, "URI too long")
				return
			}

			if hasBody(r) && !isJSON(r.Header.Get("Content-Type")) {
				respond.Error(w, http.StatusUnsupportedMediaType, "content type must be application/json")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
