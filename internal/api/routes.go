package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RegisterRoutes mounts the generation endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/functions", func(r chi.Router) {
		r.Post("/gemini-chat", h.Chat)
		r.Post("/gemini-lecturer", h.Lecturer)
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/questions", h.Questions)
		r.Post("/games/sequence", h.SequencePuzzle)
		r.Post("/games/label", h.LabelPuzzle)
		r.Post("/exam-outline", h.ExamOutline)
		r.Post("/visual", h.Visual)
		r.Post("/materials", h.Material)
	})
}

// NewRouter builds the full HTTP handler with logging, recovery, a
// /health heartbeat and CORS. An empty origins list allows any origin.
func NewRouter(h *Handler, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	h.RegisterRoutes(r)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
	})
	return c.Handler(r)
}
