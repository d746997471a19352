package playlist

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vibeapi/internal/httpx"
)

type DescribeRequest struct {
	Vibe string `json:"vibe" validate:"notblank,max=200"`
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

// Describe handles POST /describe
// @Summary Generate a playlist description
// @Tags playlists
// @Accept json
// @Produce json
// @Param request body DescribeRequest true "Vibe"
// @Success 200 {object} httpx.SuccessResponse{data=Description}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /describe [post]
func (h *HTTPHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req DescribeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Vibe is required", details)
		return
	}

	desc, err := h.svc.Describe(r.Context(), req.Vibe)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, desc, nil)
}

// SuggestPlaylists handles GET /suggest_playlists
// @Summary Find playlists for a vibe
// @Tags playlists
// @Produce json
// @Param vibe query string true "Vibe"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /suggest_playlists [get]
func (h *HTTPHandler) SuggestPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.svc.SuggestPlaylists(r.Context(), r.URL.Query().Get("vibe"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"playlists": playlists}, map[string]any{"total": len(playlists)})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Vibe is required", nil)
	case errors.Is(err, context.Canceled):
		h.log.Debug("client went away", zap.String("request_id", httpx.RequestIDFrom(r)))
		w.WriteHeader(httpx.StatusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		httpx.JSONError(w, r, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out", nil)
	case errors.Is(err, ErrUpstream):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream service unavailable", nil)
	default:
		h.log.Error("playlist request failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
