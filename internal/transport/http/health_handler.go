package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"povdash/internal/services"
)

// HealthHandler serves liveness and runtime status.
type HealthHandler struct {
	data    *services.DataService
	version string
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(data *services.DataService, version string) *HealthHandler {
	return &HealthHandler{data: data, version: version, started: time.Now()}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Status)
	return r
}

// Status handles GET /healthz.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	respond(w, r, map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"cache":          h.data.CacheStats(),
	})
}
