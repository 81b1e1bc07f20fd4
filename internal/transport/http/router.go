package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"povdash/internal/config"
	"povdash/internal/infrastructure"
	"povdash/internal/middleware"
)

// Handlers bundles the route groups the router mounts.
type Handlers struct {
	Analysis *AnalysisHandler
	Models   *ModelHandler
	Data     *DataHandler
	Health   *HealthHandler
}

// NewRouter builds the chi router with the standard middleware chain
// and every API route group mounted.
func NewRouter(cfg config.ServerConfig, logger *slog.Logger, metrics *infrastructure.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
		r.Method("GET", "/metrics", metrics.Handler())
	}

	r.Mount("/healthz", h.Health.Routes())
	r.Route("/api", func(r chi.Router) {
		r.Mount("/data", h.Data.Routes())
		r.Mount("/analysis", h.Analysis.Routes())
		r.Mount("/models", h.Models.Routes())
	})

	return r
}
