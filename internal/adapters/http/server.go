// Package httpadapter exposes the investigation API over chi.
package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"whohub/internal/ports"
	"whohub/internal/workers/pipeline"
)

type Server struct {
	investigations ports.Investigations
	reports        ports.Reports
	payments       ports.Payments
	uploads        ports.Uploads
	jobs           ports.JobRepository
	processor      pipeline.Processor
	webhookSecret  string
	log            *zap.Logger
}

func New(
	investigations ports.Investigations,
	reports ports.Reports,
	payments ports.Payments,
	uploads ports.Uploads,
	jobs ports.JobRepository,
	processor pipeline.Processor,
	webhookSecret string,
	log *zap.Logger,
) *Server {
	return &Server{
		investigations: investigations,
		reports:        reports,
		payments:       payments,
		uploads:        uploads,
		jobs:           jobs,
		processor:      processor,
		webhookSecret:  webhookSecret,
		log:            log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/investigations", func(r chi.Router) {
		r.Post("/", s.handleCreateInvestigation)
		r.Get("/", s.handleListInvestigations)
		r.Get("/{id}", s.handleGetInvestigation)
		r.Post("/{id}/start", s.handleStartInvestigation)
		r.Delete("/{id}", s.handleDeleteInvestigation)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Post("/generate/{id}", s.handleGenerateReport)
		r.Get("/{id}", s.handleGetReport)
		r.Get("/{id}/download", s.handleDownloadReport)
		r.Delete("/{id}", s.handleDeleteReport)
	})

	r.Route("/api/uploads/investigation/{id}", func(r chi.Router) {
		r.Post("/image", s.handleUploadImage)
		r.Get("/image/{filename}", s.handleGetImage)
		r.Delete("/image/{filename}", s.handleDeleteImage)
	})

	r.Post("/api/webhooks/stripe", s.handleStripeWebhook)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
