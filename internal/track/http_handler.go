package track

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vibeapi/internal/httpx"
)

type SearchRequest struct {
	Query string `json:"query" validate:"notblank,max=200"`
}

type HTTPHandler struct {
	svc *Service
	log *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{svc: svc, log: log}
}

// Search handles POST /search
// @Summary Find tracks for a mood
// @Description Ask the language model for songs matching the query and resolve them on Spotify
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Mood or keyword"
// @Success 200 {object} httpx.SuccessResponse{data=Result}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /search [post]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query is required", details)
		return
	}

	res, err := h.svc.Search(r.Context(), req.Query)
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, res, nil)
	case errors.Is(err, ErrValidation):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query is required", nil)
	case errors.Is(err, ErrNoSuggestions):
		httpx.JSONError(w, r, http.StatusNotFound, "NO_SUGGESTIONS", "No suggestions found", nil)
	case errors.Is(err, context.Canceled):
		h.log.Debug("client went away", zap.String("request_id", httpx.RequestIDFrom(r)))
		w.WriteHeader(httpx.StatusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		httpx.JSONError(w, r, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out", nil)
	default:
		h.log.Error("search failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
