package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Options struct {
	Title     string
	ChartSize charts.Size
}

type Server struct {
	dashboard   *services.Dashboard
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(dashboard *services.Dashboard, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		dashboard:   dashboard,
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dashboard, logger, opts.ChartSize),
		sseHandlers: handlers.NewSSEHandlers(dashboard, logger, opts.Title),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Dashboard page and its live-update stream
	r.Get("/", s.sseHandlers.HandlePage)
	r.Get("/sse/dashboard", s.sseHandlers.HandleDashboard)

	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Compress(5, "application/json"))
		r.Get("/metrics", s.apiHandlers.HandleMetrics)
		r.Get("/daily", s.apiHandlers.HandleDaily)
		r.Get("/regions", s.apiHandlers.HandleRegions)
		r.Get("/categories", s.apiHandlers.HandleCategories)
		r.Get("/records", s.apiHandlers.HandleRecords)
		r.Get("/options", s.apiHandlers.HandleOptions)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/daily.png", s.apiHandlers.HandleChart("daily"))
		r.Get("/regions.png", s.apiHandlers.HandleChart("regions"))
		r.Get("/categories.png", s.apiHandlers.HandleChart("categories"))
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/records.csv", s.apiHandlers.HandleExport(services.FormatCSV))
		r.Get("/records.xlsx", s.apiHandlers.HandleExport(services.FormatXLSX))
		r.Get("/records.parquet", s.apiHandlers.HandleExport(services.FormatParquet))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
