package process

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/handler/http/respond"
	"news-extractor/internal/usecase/pipeline"
)

// Processor runs the article pipeline for one request.
type Processor interface {
	Process(ctx context.Context, req entity.ArticleRequest) (*pipeline.Result, error)
}

// Handler serves POST /process_url.
//
// Errors map to 400 (bad body or invalid URL), 413 (body too large),
// 422 (article could not be extracted) and 500. With LegacyErrorStatus set
// every error body is sent with 200 instead.
type Handler struct {
	Svc               Processor
	LegacyErrorStatus bool
}

// ServeHTTP processes an article URL
// @Summary      Process an article URL
// @Description  Extracts, classifies and summarizes the article, then pushes it to the store.
// @Description  A failed push does not fail the request; see data.persistence.
// @Tags         articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body Request true "Article to process"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse "Invalid JSON body or URL"
// @Failure      401 {object} ErrorResponse "Missing or invalid bearer token"
// @Failure      413 {object} ErrorResponse "Request body too large"
// @Failure      415 {object} ErrorResponse "Content type is not application/json"
// @Failure      422 {object} ErrorResponse "Article could not be extracted"
// @Failure      429 {object} ErrorResponse "Rate limit exceeded"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Failure      500 {object} ErrorResponse "Internal error"
// @Router       /process_url [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		h.fail(w, http.StatusBadRequest, errors.New("request body must be a JSON object with a url field"))
		return
	}

	res, err := h.Svc.Process(r.Context(), req.toEntity())
	if err != nil {
		h.fail(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, SuccessResponse{Status: "success", Data: toDTO(res)})
}

func (h Handler) fail(w http.ResponseWriter, code int, err error) {
	if !h.LegacyErrorStatus {
		respond.SafeError(w, code, err)
		return
	}
	if code >= http.StatusInternalServerError {
		slog.Default().Error("internal server error",
			slog.Int("code", code),
			slog.String("error", respond.SanitizeError(err)))
		respond.Error(w, http.StatusOK, "internal server error")
		return
	}
	respond.SafeError(w, http.StatusOK, err)
}

func statusFor(err error) int {
	var ve *entity.ValidationError
	var ee *entity.ExtractionError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ee):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
