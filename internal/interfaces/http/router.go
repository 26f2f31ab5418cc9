// Package http assembles the FRA monitor API: routing, middleware order and
// the server lifecycle.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/fra-monitor/internal/interfaces/http/handlers"
	"github.com/turtacn/fra-monitor/internal/interfaces/http/middleware"
)

// APIPrefix is the second mount point of every resource route.
const APIPrefix = "/api"

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.  Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	// Handlers
	FRAHandler     *handlers.FRAHandler
	PattaHandler   *handlers.PattaHandler
	ExtractHandler *handlers.ExtractHandler
	ReportHandler  *handlers.ReportHandler
	HealthHandler  *handlers.HealthHandler

	// Middleware, applied in this order after request ID, real IP and
	// panic recovery.
	CORS      func(http.Handler) http.Handler
	Logging   func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler

	// Infrastructure
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics
}

// NewRouter constructs the route tree.  Resource routes are served both at
// the root and under /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}
	for _, mw := range []func(http.Handler) http.Handler{cfg.CORS, cfg.Logging, cfg.RateLimit} {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(jsonStatus(http.StatusNotFound, "Not found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "Method not allowed"))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	registerResourceRoutes(r, cfg)
	r.Route(APIPrefix, func(api chi.Router) {
		registerResourceRoutes(api, cfg)
	})

	return r
}

func registerResourceRoutes(r chi.Router, cfg RouterConfig) {
	registerFRARoutes(r, cfg.FRAHandler)
	registerPattaRoutes(r, cfg.PattaHandler)
	registerExtractRoutes(r, cfg.ExtractHandler)
	registerReportRoutes(r, cfg.ReportHandler)
}

// registerFRARoutes mounts the record list, statistics and dashboard views.
func registerFRARoutes(r chi.Router, h *handlers.FRAHandler) {
	if h == nil {
		return
	}
	r.Get("/fra-data", h.List)
	r.Get("/fra-data/overview", h.Overview)
	r.Get("/states", h.States)
}

// registerPattaRoutes mounts the holder registry under /patta-holders.
func registerPattaRoutes(r chi.Router, h *handlers.PattaHandler) {
	if h == nil {
		return
	}
	r.Route("/patta-holders", func(pr chi.Router) {
		pr.Get("/", h.List)
		pr.Post("/", h.Create)
	})
}

// registerExtractRoutes mounts the PDF upload endpoint.
func registerExtractRoutes(r chi.Router, h *handlers.ExtractHandler) {
	if h == nil {
		return
	}
	r.Post("/extract-pdf-data", h.Extract)
}

// registerReportRoutes mounts report downloads under /reports.
func registerReportRoutes(r chi.Router, h *handlers.ReportHandler) {
	if h == nil {
		return
	}
	r.Get("/reports", h.Generate)
}

func jsonStatus(code int, msg string) http.HandlerFunc {
	body, _ := json.Marshal(handlers.ErrorResponse{Success: false, Error: msg})
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write(body)
	}
}

//Personal.AI order the ending
