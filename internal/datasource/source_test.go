package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/pkg/contracts/domain"
)

func newTestLoader() *Loader {
	return NewLoader(nil, LoaderConfig{StartYear: 2018, EndYear: 2022, Seed: 42})
}

func TestParseSourceKind(t *testing.T) {
	for _, valid := range []string{"world-bank-poverty", "india-poverty", "india-multi-indicator"} {
		k, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), k)
	}
	_, err := ParseKind("oecd")
	assert.Error(t, err)
}

func TestLoadIsDeterministic(t *testing.T) {
	loader := newTestLoader()
	req := Request{Kind: KindIndiaPoverty, States: []string{"Bihar", "Kerala"}}

	first, err := loader.Load(context.Background(), req)
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadRespectsYearRange(t *testing.T) {
	loader := newTestLoader()
	data, err := loader.Load(context.Background(), Request{
		Kind:      KindIndiaPoverty,
		States:    []string{"Bihar"},
		StartYear: 2020,
		EndYear:   2021,
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	for _, o := range data {
		assert.GreaterOrEqual(t, o.Year, 2020)
		assert.LessOrEqual(t, o.Year, 2021)
	}
}

func TestLoadDefaultsToConfiguredRange(t *testing.T) {
	loader := newTestLoader()
	data, err := loader.Load(context.Background(), Request{
		Kind:   KindIndiaPoverty,
		States: []string{"Bihar"},
	})
	require.NoError(t, err)
	// 5 configured years, rural and urban rows each.
	assert.Len(t, data, 10)
}

func TestLoadAreaType(t *testing.T) {
	loader := newTestLoader()
	data, err := loader.Load(context.Background(), Request{
		Kind:     KindIndiaPoverty,
		States:   []string{"Bihar"},
		AreaType: "Rural",
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	for _, o := range data {
		assert.Equal(t, "Rural", o.AreaType)
	}
}

func TestLoadInvalidYearRange(t *testing.T) {
	loader := newTestLoader()
	_, err := loader.Load(context.Background(), Request{
		Kind:      KindIndiaPoverty,
		StartYear: 2022,
		EndYear:   2018,
	})
	assert.Error(t, err)
}

func TestLoadWorldBank(t *testing.T) {
	loader := newTestLoader()
	data, err := loader.Load(context.Background(), Request{
		Kind:      KindWorldBankPoverty,
		Countries: []string{"IND", "BRA"},
	})
	require.NoError(t, err)
	require.Len(t, data, 10)
	for _, o := range data {
		assert.NotEmpty(t, o.Country)
		assert.NotEmpty(t, o.CountryName)
		assert.Empty(t, o.State)
		assert.GreaterOrEqual(t, o.Value, 0.0)
		assert.LessOrEqual(t, o.Value, 100.0)
	}
}

func TestLoadMultiIndicator(t *testing.T) {
	loader := newTestLoader()
	data, err := loader.Load(context.Background(), Request{
		Kind:   KindIndiaMultiIndicator,
		States: []string{"Bihar"},
	})
	require.NoError(t, err)

	indicators := map[string]struct{}{}
	for _, o := range data {
		indicators[o.Indicator] = struct{}{}
	}
	assert.Len(t, indicators, len(IndiaIndicators))
}

func TestLoadStateDemographics(t *testing.T) {
	loader := newTestLoader()

	all, err := loader.LoadStateDemographics(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, len(IndianStates))

	one, err := loader.LoadStateDemographics(context.Background(), []string{"Kerala"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Kerala", one[0].State)
	assert.Positive(t, one[0].Population)

	// Reference values are stable across calls.
	again, err := loader.LoadStateDemographics(context.Background(), []string{"Kerala"})
	require.NoError(t, err)
	assert.Equal(t, one, again)
}

func TestLoadCountryMetadata(t *testing.T) {
	loader := newTestLoader()
	meta, err := loader.LoadCountryMetadata(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, meta)
	for _, m := range meta {
		assert.NotEmpty(t, m.CountryCode)
		assert.NotEmpty(t, m.Name)
	}
}

func TestLoadCombined(t *testing.T) {
	loader := newTestLoader()
	combined, err := loader.LoadCombined(context.Background(), domain.FilterSpec{
		YearRange: &domain.YearRange{Start: 2020, End: 2021},
		States:    []string{"Bihar"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, combined.WorldBank)
	assert.NotEmpty(t, combined.India)
	assert.NotEmpty(t, combined.Metadata)
	require.Len(t, combined.Demographics, 1)
	assert.Equal(t, "Bihar", combined.Demographics[0].State)
}
