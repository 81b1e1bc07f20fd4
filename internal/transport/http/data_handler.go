package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "povdash/internal/errors"
	"povdash/internal/exporter"
	"povdash/internal/services"
	"povdash/internal/stats"
	"povdash/pkg/contracts/domain"
)

// DataHandler exposes dataset access, reference data, cache control,
// and export endpoints.
type DataHandler struct {
	service  *services.DataService
	analysis *services.AnalysisService
	models   *services.ModelService
	csv      *exporter.CSVWriter
	excel    *exporter.ExcelWriter
	logger   *slog.Logger
}

// NewDataHandler creates a data handler.
func NewDataHandler(service *services.DataService, analysis *services.AnalysisService, models *services.ModelService, csv *exporter.CSVWriter, excel *exporter.ExcelWriter, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service:  service,
		analysis: analysis,
		models:   models,
		csv:      csv,
		excel:    excel,
		logger:   logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/dataset", h.Dataset)
	r.Post("/options", h.FilterOptions)
	r.Post("/combined", h.Combined)
	r.Post("/export", h.Export)
	r.Get("/countries", h.Countries)
	r.Get("/demographics", h.Demographics)
	r.Get("/cache", h.CacheStats)
	r.Delete("/cache", h.InvalidateCache)

	return r
}

// Dataset handles POST /api/data/dataset.
func (h *DataHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	data, err := h.service.Prepared(r.Context(), source, req.Filter)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("dataset", err)))
		return
	}
	respond(w, r, data)
}

// FilterOptions handles POST /api/data/options.
func (h *DataHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source SourceSpec `json:"source" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	opts, err := h.service.FilterOptions(r.Context(), source)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("filter options", err)))
		return
	}
	respond(w, r, opts)
}

// Combined handles POST /api/data/combined.
func (h *DataHandler) Combined(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter domain.FilterSpec `json:"filter"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	combined, err := h.service.Combined(r.Context(), req.Filter)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("combined data", err)))
		return
	}
	respond(w, r, combined)
}

// Countries handles GET /api/data/countries.
func (h *DataHandler) Countries(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.CountryMetadata(r.Context())
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("country metadata", err)))
		return
	}
	respond(w, r, meta)
}

// Demographics handles GET /api/data/demographics?states=a,b.
func (h *DataHandler) Demographics(w http.ResponseWriter, r *http.Request) {
	var states []string
	if raw := r.URL.Query().Get("states"); raw != "" {
		states = strings.Split(raw, ",")
	}
	demo, err := h.service.StateDemographics(r.Context(), states)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("demographics", err)))
		return
	}
	respond(w, r, demo)
}

// CacheStats handles GET /api/data/cache.
func (h *DataHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.CacheStats())
}

// InvalidateCache handles DELETE /api/data/cache.
func (h *DataHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	h.logger.InfoContext(r.Context(), "result cache invalidated")
	respond(w, r, map[string]string{"status": "invalidated"})
}

// ExportRequest selects the export format and output name.
type ExportRequest struct {
	AnalysisRequest
	Format   string `json:"format" validate:"required,oneof=csv xlsx"`
	Filename string `json:"filename" validate:"required,max=128"`
}

// Export handles POST /api/data/export. CSV exports write the prepared
// dataset; xlsx exports bundle the dataset with its summary statistics,
// correlation matrix, and a linear trend forecast.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.Contains(req.Filename, "..") || strings.ContainsAny(req.Filename, `/\`) {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "filename must not contain path separators")))
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	data, err := h.service.Prepared(r.Context(), source, req.Filter)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("export", err)))
		return
	}

	var path string
	switch req.Format {
	case "csv":
		path, err = h.csv.WriteDataset(req.Filename, data)
	case "xlsx":
		wb := exporter.Workbook{Dataset: data}
		wb.Summary = stats.Summarize(data.Values())
		if matrix, mErr := h.analysis.Correlation(r.Context(), source, req.Filter, stats.Pearson); mErr == nil {
			wb.Matrix = matrix
		}
		if forecast, fErr := h.models.ForecastTrend(r.Context(), source, req.Filter, "linear", 5); fErr == nil {
			wb.Forecast = forecast.Forecast
		}
		path, err = h.excel.Write(req.Filename, wb)
	}
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("export", err)))
		return
	}
	respond(w, r, map[string]any{"path": path, "rows": len(data)})
}
