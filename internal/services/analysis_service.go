package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"povdash/internal/cache"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/infrastructure"
	"povdash/internal/stats"
	"povdash/pkg/contracts/domain"
)

// AnalysisService runs the statistical computations over prepared
// datasets. Empty or unusable input degrades to the empty result of
// the operation, never an error: the dashboard renders blanks, not
// failures, when a filter matches nothing.
type AnalysisService struct {
	data    *DataService
	cache   *cache.ResultCache
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(data *DataService, resultCache *cache.ResultCache, metrics *infrastructure.Metrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		data:    data,
		cache:   resultCache,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "analysis_service")),
	}
}

// Summary computes descriptive statistics over the value column of the
// prepared dataset.
func (s *AnalysisService) Summary(ctx context.Context, req datasource.Request, spec domain.FilterSpec) (domain.SummaryStats, error) {
	key := cache.Key("summary", req, spec)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(domain.SummaryStats), nil
	}

	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "summary", err)
		return domain.SummaryStats{}, err
	}

	result := stats.Summarize(data.Values())
	s.observe(ctx, "summary", nil)
	s.cacheSet(key, result)
	return result, nil
}

// GroupSummary holds one group's descriptive statistics.
type GroupSummary struct {
	Group string              `json:"group"`
	Stats domain.SummaryStats `json:"stats"`
}

// SummaryByGroup computes descriptive statistics per category group.
// Groups are ordered by name; a column absent from the schema yields
// a single all-data group under the empty name.
func (s *AnalysisService) SummaryByGroup(ctx context.Context, req datasource.Request, spec domain.FilterSpec, groupBy dataprocessing.GroupColumn) ([]GroupSummary, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return nil, err
	}

	groups := map[string][]float64{}
	for _, o := range data {
		groups[groupLabel(o, groupBy)] = append(groups[groupLabel(o, groupBy)], o.Value)
	}

	out := make([]GroupSummary, 0, len(groups))
	for name, values := range groups {
		out = append(out, GroupSummary{Group: name, Stats: stats.Summarize(values)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	s.observe(ctx, "summary_by_group", nil)
	return out, nil
}

// Correlation computes the pairwise association matrix over the
// indicator columns of the pivoted dataset.
func (s *AnalysisService) Correlation(ctx context.Context, req datasource.Request, spec domain.FilterSpec, method stats.CorrelationMethod) (domain.CorrelationMatrix, error) {
	key := cache.Key("correlation", req, spec, method)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(domain.CorrelationMatrix), nil
	}

	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "correlation", err)
		return domain.CorrelationMatrix{}, err
	}

	table := dataprocessing.PivotIndicators(data)
	matrix, err := stats.Correlate(table, method)
	if errors.Is(err, stats.ErrEmptyInput) {
		s.observe(ctx, "correlation", nil)
		return domain.CorrelationMatrix{}, nil
	}
	if err != nil {
		s.observe(ctx, "correlation", err)
		return domain.CorrelationMatrix{}, fmt.Errorf("correlate: %w", err)
	}
	s.observe(ctx, "correlation", nil)
	s.cacheSet(key, matrix)
	return matrix, nil
}

// Regression fits OLS of the target indicator on the feature
// indicators over the pivoted dataset.
func (s *AnalysisService) Regression(ctx context.Context, req datasource.Request, spec domain.FilterSpec, target string, features []string) (domain.RegressionResult, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		s.observe(ctx, "regression", err)
		return domain.RegressionResult{}, err
	}

	table := dataprocessing.PivotIndicators(data)
	x, y := table.DropMissing(features, target)
	result, err := stats.LinearRegression(x, y)
	if errors.Is(err, stats.ErrEmptyInput) {
		s.observe(ctx, "regression", nil)
		return domain.RegressionResult{}, nil
	}
	if err != nil {
		s.observe(ctx, "regression", err)
		return domain.RegressionResult{}, fmt.Errorf("linear regression: %w", err)
	}
	s.observe(ctx, "regression", nil)
	return result, nil
}

// TTest compares the value distributions of two category groups.
func (s *AnalysisService) TTest(ctx context.Context, req datasource.Request, spec domain.FilterSpec, groupBy dataprocessing.GroupColumn, groupA, groupB string, alternative stats.Alternative, confidence float64) (stats.TTestResult, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return stats.TTestResult{}, err
	}

	var a, b []float64
	for _, o := range data {
		switch groupLabel(o, groupBy) {
		case groupA:
			a = append(a, o.Value)
		case groupB:
			b = append(b, o.Value)
		}
	}

	result, err := stats.TTest(a, b, alternative, confidence)
	if errors.Is(err, stats.ErrEmptyInput) || errors.Is(err, stats.ErrNotComputable) {
		s.observe(ctx, "ttest", nil)
		return result, nil
	}
	s.observe(ctx, "ttest", err)
	return result, err
}

// ANOVA tests whether value means differ across all category groups.
func (s *AnalysisService) ANOVA(ctx context.Context, req datasource.Request, spec domain.FilterSpec, groupBy dataprocessing.GroupColumn, confidence float64) (stats.AnovaResult, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return stats.AnovaResult{}, err
	}

	byGroup := map[string][]float64{}
	for _, o := range data {
		byGroup[groupLabel(o, groupBy)] = append(byGroup[groupLabel(o, groupBy)], o.Value)
	}
	groups := make([][]float64, 0, len(byGroup))
	for _, g := range byGroup {
		groups = append(groups, g)
	}

	result, err := stats.OneWayANOVA(groups, confidence)
	if errors.Is(err, stats.ErrEmptyInput) || errors.Is(err, stats.ErrNotComputable) {
		s.observe(ctx, "anova", nil)
		return result, nil
	}
	s.observe(ctx, "anova", err)
	return result, err
}

// OutlierReport flags the outlying rows of a prepared dataset.
type OutlierReport struct {
	Method   stats.OutlierMethod  `json:"method"`
	Total    int                  `json:"total"`
	Count    int                  `json:"outlier_count"`
	Outliers []domain.Observation `json:"outliers"`
}

// Outliers detects outlying values in the prepared dataset.
func (s *AnalysisService) Outliers(ctx context.Context, req datasource.Request, spec domain.FilterSpec, method stats.OutlierMethod, threshold float64) (OutlierReport, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return OutlierReport{}, err
	}

	mask := stats.DetectOutliers(data.Values(), method, threshold)
	report := OutlierReport{Method: method, Total: len(data)}
	for i, isOutlier := range mask {
		if isOutlier {
			report.Outliers = append(report.Outliers, data[i])
		}
	}
	report.Count = len(report.Outliers)
	s.observe(ctx, "outliers", nil)
	return report, nil
}

// TrendPoint is one year of an aggregated time series, with optional
// derived growth and smoothing values (NaN encodes "not defined" and
// is serialized as null by the transport layer).
type TrendPoint struct {
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
	GrowthPct     float64 `json:"growth_pct"`
	MovingAverage float64 `json:"moving_average"`
}

// Trend aggregates the dataset to a yearly mean series and annotates
// it with period-over-period growth and a rolling mean.
func (s *AnalysisService) Trend(ctx context.Context, req datasource.Request, spec domain.FilterSpec, window int) ([]TrendPoint, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return nil, err
	}

	yearly := dataprocessing.Aggregate(data, []dataprocessing.GroupColumn{dataprocessing.GroupByYear}, dataprocessing.AggMean)
	sort.Slice(yearly, func(i, j int) bool { return yearly[i].Year < yearly[j].Year })

	values := yearly.Values()
	growth := stats.GrowthRate(values, 1)
	smoothed := alignMovingAverage(values, window)

	out := make([]TrendPoint, len(yearly))
	for i, o := range yearly {
		out[i] = TrendPoint{Year: o.Year, Value: o.Value, MovingAverage: smoothed[i]}
		if growth != nil {
			out[i].GrowthPct = growth[i]
		} else {
			out[i].GrowthPct = math.NaN()
		}
	}
	s.observe(ctx, "trend", nil)
	return out, nil
}

// Aggregate groups the prepared dataset by the given columns and
// reduces each group's value column.
func (s *AnalysisService) Aggregate(ctx context.Context, req datasource.Request, spec domain.FilterSpec, groupBy []dataprocessing.GroupColumn, fn dataprocessing.AggFunc) (domain.Dataset, error) {
	data, err := s.data.Prepared(ctx, req, spec)
	if err != nil {
		return nil, err
	}
	s.observe(ctx, "aggregate", nil)
	return dataprocessing.Aggregate(data, groupBy, fn), nil
}

func (s *AnalysisService) observe(ctx context.Context, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		s.logger.ErrorContext(ctx, "analysis failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(operation, outcome)
	}
}

func (s *AnalysisService) cacheGet(key string) (any, bool) {
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

func (s *AnalysisService) cacheSet(key string, value any) {
	if s.cache != nil {
		s.cache.Set(key, value)
	}
}

// alignMovingAverage expands the valid-mode rolling mean back to the
// input length, padding the first window−1 positions with NaN so each
// entry lines up with its source year.
func alignMovingAverage(values []float64, window int) []float64 {
	smoothed := stats.MovingAverage(values, window)
	if len(smoothed) == len(values) {
		return smoothed
	}
	aligned := make([]float64, len(values))
	for i := 0; i < window-1 && i < len(aligned); i++ {
		aligned[i] = math.NaN()
	}
	for j, v := range smoothed {
		aligned[j+window-1] = v
	}
	return aligned
}

func groupLabel(o domain.Observation, col dataprocessing.GroupColumn) string {
	switch col {
	case dataprocessing.GroupByState:
		return o.State
	case dataprocessing.GroupByCountry:
		return o.Country
	case dataprocessing.GroupByAreaType:
		return o.AreaType
	case dataprocessing.GroupByIndicator:
		return o.Indicator
	case dataprocessing.GroupByYear:
		return fmt.Sprintf("%d", o.Year)
	}
	return ""
}
