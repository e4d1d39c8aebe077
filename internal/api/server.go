package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/mirror/internal/config"
	"github.com/dgallion1/mirror/internal/review"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for mirror.
type Server struct {
	router chi.Router
	svc    *review.Service
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *review.Service, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		svc: svc,
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats", s.handleStats)

		r.Post("/api/documents", s.handleUpload)
		r.Post("/api/documents/batch", s.handleBatchUpload)
		r.Get("/api/documents", s.handleListDocuments)

		r.Route("/api/documents/{docID}", func(r chi.Router) {
			r.Use(s.documentCtx)

			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/chunks", s.handleChunks)
			r.Put("/source", s.handleSetSource)

			r.Post("/frame", s.handleFrame)
			r.Put("/selection", s.handleSelect)
			r.Delete("/selection", s.handleClearSelection)

			r.Get("/comments", s.handleListComments)
			r.Post("/comments", s.handleAddComment)
			r.Post("/submit", s.handleSubmit)
			r.Post("/approve", s.handleApprove)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
