// Package gateway exposes the matching service over HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
)

const maxBodyBytes = 1 << 20

// Matcher is the part of matching.Service served by the gateway.
type Matcher interface {
	Upsert(ctx context.Context, req matching.UpsertRequest) (*matching.UpsertResponse, error)
	Search(ctx context.Context, req matching.SearchRequest) (*matching.SearchResponse, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the upsert and search endpoints.
type Handler struct {
	matcher Matcher
	logger  *zap.Logger
}

func New(matcher Matcher, log *zap.Logger) *Handler {
	return &Handler{matcher: matcher, logger: logger.OrNop(log)}
}

// Routes returns the gateway mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upsert", h.handleUpsert)
	mux.HandleFunc("POST /api/search", h.handleSearch)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req matching.UpsertRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.matcher.Upsert(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req matching.SearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.matcher.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body is empty"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := matching.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
