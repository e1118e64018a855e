package process

import (
	"net/http"

	"news-extractor/internal/handler/http/auth"
)

// Register mounts the handler on POST /process_url behind authentication.
// When limit is non-nil it runs before authentication so that invalid
// tokens also spend the client's budget.
func Register(mux *http.ServeMux, h Handler, jwtSecret []byte, limit func(http.Handler) http.Handler) {
	handler := auth.Authz(jwtSecret)(h)
	if limit != nil {
		handler = limit(handler)
	}
	mux.Handle("POST /process_url", handler)
}
