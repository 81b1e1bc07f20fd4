package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "povdash/internal/errors"
	"povdash/internal/ml"
	"povdash/internal/services"
)

// ModelHandler exposes model training and forecasting endpoints.
type ModelHandler struct {
	service *services.ModelService
	logger  *slog.Logger
}

// NewModelHandler creates a model handler.
func NewModelHandler(service *services.ModelService, logger *slog.Logger) *ModelHandler {
	return &ModelHandler{
		service: service,
		logger:  logger.With(slog.String("component", "model_handler")),
	}
}

// Routes returns the model routes.
func (h *ModelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/train", h.Train)
	r.Post("/crossval", h.CrossValidate)
	r.Post("/forecast", h.Forecast)

	return r
}

// Train handles POST /api/models/train. Without a target the model
// fits the year-value trend; with one it predicts the target indicator
// from the feature indicators.
func (h *ModelHandler) Train(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	kind, err := ml.ParseKind(req.Model)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	var report services.TrainReport
	if req.Target == "" {
		report, err = h.service.TrainTrend(r.Context(), source, req.Filter, kind)
	} else {
		report, err = h.service.TrainIndicators(r.Context(), source, req.Filter, req.Target, req.Features, kind)
	}
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("model training", err)))
		return
	}
	respond(w, r, report)
}

// CrossValidate handles POST /api/models/crossval. The fold count
// defaults to 5.
func (h *ModelHandler) CrossValidate(w http.ResponseWriter, r *http.Request) {
	var req CrossValidateRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	kind, err := ml.ParseKind(req.Model)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	folds := req.Folds
	if folds == 0 {
		folds = 5
	}

	cv, err := h.service.CrossValidate(r.Context(), source, req.Filter, req.Target, req.Features, kind, folds)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("cross-validation", err)))
		return
	}
	respond(w, r, cv)
}

// Forecast handles POST /api/models/forecast.
func (h *ModelHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if !decode(w, r, &req) {
		return
	}
	source, err := req.Source.toRequest()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	kind, err := ml.ParseKind(req.Model)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	yearsAhead := req.YearsAhead
	if yearsAhead == 0 {
		yearsAhead = 5
	}

	report, err := h.service.ForecastTrend(r.Context(), source, req.Filter, kind, yearsAhead)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.AnalysisError("forecast", err)))
		return
	}
	respond(w, r, report)
}
