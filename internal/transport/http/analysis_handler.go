package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"povdash/internal/dataprocessing"
	apierrors "povdash/internal/errors"
	"povdash/internal/services"
	"povdash/internal/stats"
)

// AnalysisHandler exposes the statistical analysis endpoints.
type AnalysisHandler struct {
	service *services.AnalysisService
	logger  *slog.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/summary", h.Summary)
	r.Post("/summary/groups", h.SummaryByGroup)
	r.Post("/correlation", h.Correlation)
	r.Post("/regression", h.Regression)
	r.Post("/ttest", h.TTest)
	r.Post("/anova", h.ANOVA)
	r.Post("/outliers", h.Outliers)
	r.Post("/trend", h.Trend)
	r.Post("/aggregate", h.Aggregate)

	return r
}

// Summary handles POST /api/analysis/summary.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	result, err := h.service.Summary(r.Context(), source, req.Filter)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("summary", err)))
		return
	}
	respond(w, r, result)
}

// SummaryByGroup handles POST /api/analysis/summary/groups.
func (h *AnalysisHandler) SummaryByGroup(w http.ResponseWriter, r *http.Request) {
	var req GroupSummaryRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	result, err := h.service.SummaryByGroup(r.Context(), source, req.Filter, dataprocessing.GroupColumn(req.GroupBy))
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("group summary", err)))
		return
	}
	respond(w, r, result)
}

// Correlation handles POST /api/analysis/correlation.
func (h *AnalysisHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	method := stats.Pearson
	if req.Method != "" {
		method, err = stats.ParseCorrelationMethod(req.Method)
		if err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
			return
		}
	}

	result, err := h.service.Correlation(r.Context(), source, req.Filter, method)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("correlation", err)))
		return
	}
	respond(w, r, result)
}

// Regression handles POST /api/analysis/regression.
func (h *AnalysisHandler) Regression(w http.ResponseWriter, r *http.Request) {
	var req RegressionRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	result, err := h.service.Regression(r.Context(), source, req.Filter, req.Target, req.Features)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("regression", err)))
		return
	}
	respond(w, r, result)
}

// TTest handles POST /api/analysis/ttest.
func (h *AnalysisHandler) TTest(w http.ResponseWriter, r *http.Request) {
	var req TTestRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	alternative := stats.TwoSided
	switch req.Alternative {
	case "less":
		alternative = stats.Less
	case "greater":
		alternative = stats.Greater
	}
	confidence := req.Confidence
	if confidence == 0 {
		confidence = 0.95
	}

	result, err := h.service.TTest(r.Context(), source, req.Filter,
		dataprocessing.GroupColumn(req.GroupBy), req.GroupA, req.GroupB, alternative, confidence)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("t-test", err)))
		return
	}
	respond(w, r, result)
}

// ANOVA handles POST /api/analysis/anova.
func (h *AnalysisHandler) ANOVA(w http.ResponseWriter, r *http.Request) {
	var req AnovaRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 0.95
	}

	result, err := h.service.ANOVA(r.Context(), source, req.Filter, dataprocessing.GroupColumn(req.GroupBy), confidence)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("anova", err)))
		return
	}
	respond(w, r, result)
}

// Outliers handles POST /api/analysis/outliers.
func (h *AnalysisHandler) Outliers(w http.ResponseWriter, r *http.Request) {
	var req OutliersRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	method := stats.OutlierIQR
	if req.Method == "zscore" {
		method = stats.OutlierZScore
	}
	threshold := req.Threshold
	if threshold == 0 {
		if method == stats.OutlierIQR {
			threshold = 1.5
		} else {
			threshold = 3
		}
	}

	result, err := h.service.Outliers(r.Context(), source, req.Filter, method, threshold)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("outlier detection", err)))
		return
	}
	respond(w, r, result)
}

// Trend handles POST /api/analysis/trend.
func (h *AnalysisHandler) Trend(w http.ResponseWriter, r *http.Request) {
	var req TrendRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	window := req.Window
	if window == 0 {
		window = 3
	}

	result, err := h.service.Trend(r.Context(), source, req.Filter, window)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("trend", err)))
		return
	}
	respond(w, r, sanitizeTrend(result))
}

// Aggregate handles POST /api/analysis/aggregate.
func (h *AnalysisHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	groupBy := make([]dataprocessing.GroupColumn, len(req.GroupBy))
	for i, g := range req.GroupBy {
		groupBy[i] = dataprocessing.GroupColumn(g)
	}
	fn := dataprocessing.AggMean
	if req.Func != "" {
		fn = dataprocessing.AggFunc(req.Func)
	}

	result, err := h.service.Aggregate(r.Context(), source, req.Filter, groupBy, fn)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("aggregation", err)))
		return
	}
	respond(w, r, result)
}
