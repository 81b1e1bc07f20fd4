package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"povdash/internal/cache"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/infrastructure"
	"povdash/pkg/contracts/domain"
)

// DataService loads, cleans, and filters observation datasets. Prepared
// datasets are memoized in the result cache keyed by source request and
// filter, so repeated analysis calls over the same slice skip the
// load-and-clean pipeline.
type DataService struct {
	loader  *datasource.Loader
	cleaner *dataprocessing.Cleaner
	cache   *cache.ResultCache
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewDataService creates a data service with its collaborators injected.
func NewDataService(loader *datasource.Loader, cleaner *dataprocessing.Cleaner, resultCache *cache.ResultCache, metrics *infrastructure.Metrics, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		loader:  loader,
		cleaner: cleaner,
		cache:   resultCache,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "data_service")),
	}
}

// Prepared returns the cleaned, filtered dataset for the source request
// and filter. An empty result is a valid outcome, not an error.
func (s *DataService) Prepared(ctx context.Context, req datasource.Request, spec domain.FilterSpec) (domain.Dataset, error) {
	key := cache.Key("dataset", req, spec)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(domain.Dataset), nil
	}

	start := time.Now()
	raw, err := s.loader.Load(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	cleaned := s.cleaner.Clean(ctx, raw)
	filtered := dataprocessing.Filter(cleaned, spec)

	s.logger.InfoContext(ctx, "dataset prepared",
		slog.String("kind", string(req.Kind)),
		slog.Int("raw_rows", len(raw)),
		slog.Int("clean_rows", len(cleaned)),
		slog.Int("filtered_rows", len(filtered)),
		slog.Duration("elapsed", time.Since(start)))

	s.cacheSet(key, filtered)
	return filtered, nil
}

// Raw returns the loaded dataset without cleaning or filtering.
func (s *DataService) Raw(ctx context.Context, req datasource.Request) (domain.Dataset, error) {
	return s.loader.Load(ctx, req)
}

// Combined returns the multi-source bundle for the dashboard landing
// view, honoring the filter's year range and state list.
func (s *DataService) Combined(ctx context.Context, spec domain.FilterSpec) (*datasource.CombinedData, error) {
	key := cache.Key("combined", spec)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*datasource.CombinedData), nil
	}

	combined, err := s.loader.LoadCombined(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("load combined data: %w", err)
	}
	s.cacheSet(key, combined)
	return combined, nil
}

// CountryMetadata returns the World Bank country reference table.
func (s *DataService) CountryMetadata(ctx context.Context) ([]domain.CountryMeta, error) {
	return s.loader.LoadCountryMetadata(ctx)
}

// StateDemographics returns census-style reference data per state.
func (s *DataService) StateDemographics(ctx context.Context, states []string) ([]domain.StateDemographics, error) {
	return s.loader.LoadStateDemographics(ctx, states)
}

// FilterOptions lists the distinct values an interactive filter can
// offer for a dataset: only columns present in the schema are reported.
type FilterOptions struct {
	States     []string `json:"states,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
	AreaTypes  []string `json:"area_types,omitempty"`
	MinYear    int      `json:"min_year"`
	MaxYear    int      `json:"max_year"`
}

// FilterOptions computes the distinct filterable values of the cleaned
// dataset for the source request.
func (s *DataService) FilterOptions(ctx context.Context, req datasource.Request) (FilterOptions, error) {
	data, err := s.Prepared(ctx, req, domain.FilterSpec{})
	if err != nil {
		return FilterOptions{}, err
	}

	var opts FilterOptions
	states := map[string]struct{}{}
	countries := map[string]struct{}{}
	indicators := map[string]struct{}{}
	areaTypes := map[string]struct{}{}
	for i, o := range data {
		if o.State != "" {
			states[o.State] = struct{}{}
		}
		if o.Country != "" {
			countries[o.Country] = struct{}{}
		}
		if o.Indicator != "" {
			indicators[o.Indicator] = struct{}{}
		}
		if o.AreaType != "" {
			areaTypes[o.AreaType] = struct{}{}
		}
		if i == 0 || o.Year < opts.MinYear {
			opts.MinYear = o.Year
		}
		if o.Year > opts.MaxYear {
			opts.MaxYear = o.Year
		}
	}
	opts.States = sortedKeys(states)
	opts.Countries = sortedKeys(countries)
	opts.Indicators = sortedKeys(indicators)
	opts.AreaTypes = sortedKeys(areaTypes)
	return opts, nil
}

// CacheStats exposes result cache counters for the health endpoint.
func (s *DataService) CacheStats() map[string]any {
	if s.cache == nil {
		return map[string]any{"enabled": false}
	}
	return s.cache.Stats()
}

// InvalidateCache drops every cached dataset and analysis result.
func (s *DataService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *DataService) cacheGet(key string) (any, bool) {
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

func (s *DataService) cacheSet(key string, value any) {
	if s.cache != nil {
		s.cache.Set(key, value)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
