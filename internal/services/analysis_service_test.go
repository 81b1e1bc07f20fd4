package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/internal/cache"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/stats"
	"povdash/pkg/contracts/domain"
)

func newTestServices(t *testing.T) (*DataService, *AnalysisService) {
	t.Helper()
	loader := datasource.NewLoader(nil, datasource.LoaderConfig{StartYear: 2015, EndYear: 2024, Seed: 42})
	cleaner := dataprocessing.NewCleaner(nil, dataprocessing.DefaultCleanerConfig())
	resultCache := cache.New(time.Minute, 64)
	t.Cleanup(resultCache.Stop)

	data := NewDataService(loader, cleaner, resultCache, nil, nil)
	analysis := NewAnalysisService(data, resultCache, nil, nil)
	return data, analysis
}

func indiaRequest() datasource.Request {
	return datasource.Request{Kind: datasource.KindIndiaPoverty, States: []string{"Bihar", "Kerala", "Punjab"}}
}

func TestDataServicePrepared(t *testing.T) {
	data, _ := newTestServices(t)

	out, err := data.Prepared(context.Background(), indiaRequest(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	// Second call returns the cached dataset.
	again, err := data.Prepared(context.Background(), indiaRequest(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, out, again)

	statsMap := data.CacheStats()
	assert.GreaterOrEqual(t, statsMap["hit_count"].(int64), int64(1))
}

func TestDataServicePreparedCachesAcrossYearRangePointers(t *testing.T) {
	data, _ := newTestServices(t)

	// Each request decodes a fresh YearRange pointer; deeply-equal
	// specs must still share one cache entry.
	first, err := data.Prepared(context.Background(), indiaRequest(), domain.FilterSpec{
		YearRange: &domain.YearRange{Start: 2016, End: 2020},
	})
	require.NoError(t, err)

	before := data.CacheStats()["hit_count"].(int64)
	second, err := data.Prepared(context.Background(), indiaRequest(), domain.FilterSpec{
		YearRange: &domain.YearRange{Start: 2016, End: 2020},
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Greater(t, data.CacheStats()["hit_count"].(int64), before)

	// A different range never reuses the entry.
	narrower, err := data.Prepared(context.Background(), indiaRequest(), domain.FilterSpec{
		YearRange: &domain.YearRange{Start: 2018, End: 2019},
	})
	require.NoError(t, err)
	for _, o := range narrower {
		assert.GreaterOrEqual(t, o.Year, 2018)
		assert.LessOrEqual(t, o.Year, 2019)
	}
}

func TestDataServiceFilterOptions(t *testing.T) {
	data, _ := newTestServices(t)

	opts, err := data.FilterOptions(context.Background(), indiaRequest())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bihar", "Kerala", "Punjab"}, opts.States)
	assert.Contains(t, opts.AreaTypes, "Rural")
	assert.Empty(t, opts.Countries)
	assert.LessOrEqual(t, opts.MinYear, opts.MaxYear)
}

func TestAnalysisSummary(t *testing.T) {
	_, analysis := newTestServices(t)

	summary, err := analysis.Summary(context.Background(), indiaRequest(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.Positive(t, summary.Count)
	assert.GreaterOrEqual(t, summary.Min, 0.0)
	assert.LessOrEqual(t, summary.Max, 100.0)
}

func TestAnalysisSummaryEmptyFilterDegrades(t *testing.T) {
	_, analysis := newTestServices(t)

	// A filter matching no rows yields the empty record, not an error.
	summary, err := analysis.Summary(context.Background(), indiaRequest(), domain.FilterSpec{
		States: []string{"Atlantis"},
	})
	require.NoError(t, err)
	assert.True(t, summary.Empty())
}

func TestAnalysisSummaryByGroup(t *testing.T) {
	_, analysis := newTestServices(t)

	groups, err := analysis.SummaryByGroup(context.Background(), indiaRequest(), domain.FilterSpec{}, dataprocessing.GroupByState)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	// Ordered by group name.
	assert.Equal(t, "Bihar", groups[0].Group)
	assert.Equal(t, "Kerala", groups[1].Group)
	assert.Equal(t, "Punjab", groups[2].Group)
	for _, g := range groups {
		assert.Positive(t, g.Stats.Count)
	}
}

func TestAnalysisCorrelation(t *testing.T) {
	_, analysis := newTestServices(t)
	req := datasource.Request{Kind: datasource.KindIndiaMultiIndicator, States: []string{"Bihar", "Kerala", "Punjab"}}

	matrix, err := analysis.Correlation(context.Background(), req, domain.FilterSpec{}, stats.Pearson)
	require.NoError(t, err)
	require.NotEmpty(t, matrix.Columns)
	for i := range matrix.Columns {
		assert.InDelta(t, 1.0, matrix.At(i, i), 1e-9)
		for j := range matrix.Columns {
			assert.InDelta(t, matrix.At(i, j), matrix.At(j, i), 1e-9)
		}
	}
}

func TestAnalysisCorrelationEmptyDegrades(t *testing.T) {
	_, analysis := newTestServices(t)
	req := datasource.Request{Kind: datasource.KindIndiaMultiIndicator, States: []string{"Bihar"}}

	matrix, err := analysis.Correlation(context.Background(), req, domain.FilterSpec{
		States: []string{"Atlantis"},
	}, stats.Pearson)
	require.NoError(t, err)
	assert.True(t, matrix.Empty())
}

func TestAnalysisTrend(t *testing.T) {
	_, analysis := newTestServices(t)

	trend, err := analysis.Trend(context.Background(), indiaRequest(), domain.FilterSpec{}, 3)
	require.NoError(t, err)
	require.Len(t, trend, 10)

	// Years ascend and each point aggregates that year's mean.
	for i := 1; i < len(trend); i++ {
		assert.Greater(t, trend[i].Year, trend[i-1].Year)
	}
}

func TestAnalysisTTestAndANOVA(t *testing.T) {
	_, analysis := newTestServices(t)
	req := indiaRequest()

	ttest, err := analysis.TTest(context.Background(), req, domain.FilterSpec{},
		dataprocessing.GroupByAreaType, "Rural", "Urban", stats.TwoSided, 0.95)
	require.NoError(t, err)
	// Rural rates are generated higher than urban.
	assert.Greater(t, ttest.MeanA, ttest.MeanB)

	anova, err := analysis.ANOVA(context.Background(), req, domain.FilterSpec{}, dataprocessing.GroupByState, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 3, anova.NumGroups)
}

func TestAnalysisOutliers(t *testing.T) {
	_, analysis := newTestServices(t)

	report, err := analysis.Outliers(context.Background(), indiaRequest(), domain.FilterSpec{}, stats.OutlierIQR, 1.5)
	require.NoError(t, err)
	assert.Equal(t, stats.OutlierIQR, report.Method)
	assert.Positive(t, report.Total)
	assert.Equal(t, len(report.Outliers), report.Count)
}

func TestAnalysisAggregate(t *testing.T) {
	_, analysis := newTestServices(t)

	out, err := analysis.Aggregate(context.Background(), indiaRequest(), domain.FilterSpec{},
		[]dataprocessing.GroupColumn{dataprocessing.GroupByState}, dataprocessing.AggMean)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
