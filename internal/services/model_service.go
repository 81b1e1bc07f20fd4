package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"povdash/internal/cache"
	"povdash/internal/config"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/infrastructure"
	"povdash/internal/ml"
	"povdash/pkg/contracts/domain"
)

// ModelService trains regression models over prepared datasets and
// serves forecasts. Training policy constants (split fraction, seed,
// ensemble size) come from configuration so every run over the same
// data reproduces the same model.
type ModelService struct {
	data    *DataService
	cache   *cache.ResultCache
	metrics *infrastructure.Metrics
	logger  *slog.Logger
	opts    ml.Options
}

// NewModelService creates a model service using the configured
// training policy.
func NewModelService(data *DataService, resultCache *cache.ResultCache, metrics *infrastructure.Metrics, logger *slog.Logger, cfg config.MLConfig) *ModelService {
	if logger == nil {
		logger = slog.Default()
	}
	opts := ml.DefaultOptions()
	if cfg.TestFraction > 0 {
		opts.TestFraction = cfg.TestFraction
	}
	if cfg.Seed != 0 {
		opts.Seed = cfg.Seed
	}
	if cfg.Estimators > 0 {
		opts.Estimators = cfg.Estimators
	}
	if cfg.LearningRate > 0 {
		opts.LearningRate = cfg.LearningRate
	}
	if cfg.MaxDepth > 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	return &ModelService{
		data:    data,
		cache:   resultCache,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "model_service")),
		opts:    opts,
	}
}

// TrainReport is the serializable outcome of one training run.
type TrainReport struct {
	Kind        ml.Kind                    `json:"model"`
	Metrics     domain.ModelMetrics        `json:"metrics"`
	Predictions []domain.PredictionPair    `json:"predictions"`
	Importances []domain.FeatureImportance `json:"importances,omitempty"`
	Rows        int                        `json:"rows"`
}

// TrainTrend fits the chosen model to the year-value trend of the
// prepared dataset. An empty dataset yields an empty report.
func (s *ModelService) TrainTrend(ctx context.Context, req datasource.Request, spec domain.FilterSpec, kind ml.Kind) (TrainReport, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "train", err)
		return TrainReport{}, err
	}

	table := dataprocessing.YearValueTable(data)
	report, _, err := s.train(ctx, table, "value", []string{"year"}, kind)
	return report, err
}

// TrainIndicators fits the chosen model to predict the target
// indicator from the feature indicators over the pivoted dataset.
func (s *ModelService) TrainIndicators(ctx context.Context, req datasource.Request, spec domain.FilterSpec, target string, features []string, kind ml.Kind) (TrainReport, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "train", err)
		return TrainReport{}, err
	}

	table := dataprocessing.PivotIndicators(data)
	report, _, err := s.train(ctx, table, target, features, kind)
	return report, err
}

// CrossValidate scores the chosen model with k-fold cross-validation.
// Without a target the year-value trend is scored; with one the pivoted
// indicator table is. An empty dataset yields an empty result.
func (s *ModelService) CrossValidate(ctx context.Context, req datasource.Request, spec domain.FilterSpec, target string, features []string, kind ml.Kind, folds int) (ml.CrossValidation, error) {
	key := cache.Key("crossval", req, spec, target, features, kind, folds)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(ml.CrossValidation), nil
	}

	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "crossval", err)
		return ml.CrossValidation{}, err
	}

	var table *domain.Table
	if target == "" {
		table = dataprocessing.YearValueTable(data)
		target, features = "value", []string{"year"}
	} else {
		table = dataprocessing.PivotIndicators(data)
	}

	cv, err := ml.CrossValidate(table, target, features, kind, folds, s.opts)
	if errors.Is(err, ml.ErrEmptyInput) {
		s.observe(ctx, "crossval", nil)
		return cv, nil
	}
	if err != nil {
		s.observe(ctx, "crossval", err)
		return cv, err
	}

	s.logger.InfoContext(ctx, "model cross-validated",
		slog.String("model", string(kind)),
		slog.Int("folds", folds),
		slog.Float64("mean_r2", cv.MeanScore))
	s.observe(ctx, "crossval", nil)
	s.cacheSet(key, cv)
	return cv, nil
}

// ForecastReport bundles a trained trend model with its future
// point forecasts.
type ForecastReport struct {
	TrainReport
	Forecast []domain.ForecastPoint `json:"forecast"`
}

// ForecastTrend trains the chosen model on the year-value trend and
// extrapolates yearsAhead points past the last observed year. An empty
// dataset yields an empty report with no forecast points.
func (s *ModelService) ForecastTrend(ctx context.Context, req datasource.Request, spec domain.FilterSpec, kind ml.Kind, yearsAhead int) (ForecastReport, error) {
	key := cache.Key("forecast", req, spec, kind, yearsAhead)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(ForecastReport), nil
	}

	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "forecast", err)
		return ForecastReport{}, err
	}

	table := dataprocessing.YearValueTable(data)
	report, model, err := s.train(ctx, table, "value", []string{"year"}, kind)
	if err != nil {
		return ForecastReport{TrainReport: report}, err
	}

	out := ForecastReport{TrainReport: report}
	if model != nil {
		out.Forecast = ml.Forecast(model, data, yearsAhead)
	}
	s.observe(ctx, "forecast", nil)
	s.cacheSet(key, out)
	return out, nil
}

func (s *ModelService) train(ctx context.Context, table *domain.Table, target string, features []string, kind ml.Kind) (TrainReport, ml.Regressor, error) {
	start := time.Now()
	result, err := ml.Train(table, target, features, kind, s.opts)
	if errors.Is(err, ml.ErrEmptyInput) {
		s.observe(ctx, "train", nil)
		return TrainReport{Kind: kind, Predictions: result.Predictions}, nil, nil
	}
	if err != nil {
		s.observe(ctx, "train", err)
		return TrainReport{Kind: kind}, nil, err
	}

	report := TrainReport{
		Kind:        result.Kind,
		Metrics:     result.Metrics,
		Predictions: result.Predictions,
		Importances: ml.Importances(result.Model, features),
		Rows:        table.Rows(),
	}
	s.logger.InfoContext(ctx, "model trained",
		slog.String("model", string(kind)),
		slog.String("target", target),
		slog.Int("rows", table.Rows()),
		slog.Float64("r2", result.Metrics.R2),
		slog.Duration("elapsed", time.Since(start)))
	s.observe(ctx, "train", nil)
	return report, result.Model, nil
}

func (s *ModelService) observe(ctx context.Context, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		s.logger.ErrorContext(ctx, "model operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(operation, outcome)
	}
}

func (s *ModelService) cacheGet(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	value, ok := s.cache.Get(key)
	if s.metrics != nil {
		if ok {
			s.metrics.CacheHits.Inc()
		} else {
			s.metrics.CacheMisses.Inc()
		}
	}
	return value, ok
}

func (s *ModelService) cacheSet(key string, value any) {
	if s.cache != nil {
		s.cache.Set(key, value)
	}
}
