package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kozaktomas/face-register/internal/web/handlers"
	"github.com/kozaktomas/face-register/internal/web/static"
)

func (s *Server) setupRoutes(render *handlers.Renderer) {
	pagesHandler := handlers.NewPagesHandler(render)
	uploadHandler := handlers.NewUploadHandler(s.config, s.deps.Upload, render, s.log)
	facesHandler := handlers.NewFacesHandler(s.config, s.deps.Persons, render, s.log)
	healthHandler := handlers.NewHealthHandler(s.deps.Persons, s.deps.Bucket, s.log)
	eventsHandler := handlers.NewEventsHandler(s.deps.Indexing, s.log)

	// Operational endpoints
	s.router.Get("/healthz", healthHandler.Check)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	// Pages
	s.router.Get("/", pagesHandler.Home)
	s.router.Get("/upload", uploadHandler.Form)
	s.router.Post("/upload", uploadHandler.Submit)
	s.router.Get("/faces", facesHandler.Page)
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(static.GetFileSystem())))

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/faces", facesHandler.List)
		r.Post("/events/storage", eventsHandler.Storage)
	})
}
