// Package api exposes the content generation gateway over JSON HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lennai/lennai/internal/content"
)

// maxBodyBytes bounds JSON request bodies. Material uploads use
// document.MaxSize instead.
const maxBodyBytes = 1 << 20

// Handler serves generation requests.
type Handler struct {
	gen        content.Gateway
	difficulty string
}

// NewHandler creates a Handler. difficulty is the default question
// difficulty when a request leaves it out.
func NewHandler(gen content.Gateway, difficulty string) *Handler {
	return &Handler{gen: gen, difficulty: difficulty}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// generationFailed maps a gateway error to a response. Provider and
// validation failures are upstream problems, reported as 502.
func generationFailed(w http.ResponseWriter, r *http.Request, err error) {
	var genErr *content.GenerationError
	if errors.As(err, &genErr) {
		slog.Warn("generation failed", "path", r.URL.Path, "op", genErr.Op, "error", genErr.Err)
		Error(w, http.StatusBadGateway, err.Error())
		return
	}
	if errors.Is(err, r.Context().Err()) {
		return
	}
	slog.Error("request failed", "path", r.URL.Path, "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
