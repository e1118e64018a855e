// Package respond provides utilities for sending HTTP responses in JSON format.
// Error bodies always have the shape {"error": "..."}; messages are sanitized
// so that credentials never reach a client or a log line.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": msg} with the given status code. msg is sanitized.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: sanitize(msg)})
}

// SafeError writes err as an error response. For 5xx codes the client gets a
// generic message and the sanitized cause is logged instead.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code >= http.StatusInternalServerError {
		slog.Default().Error("internal server error",
			slog.String("status", http.StatusText(code)),
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
		JSON(w, code, ErrorBody{Error: "internal server error"})
		return
	}

	JSON(w, code, ErrorBody{Error: SanitizeError(err)})
}
