package datasource

import (
	"context"

	"golang.org/x/sync/errgroup"

	"povdash/pkg/contracts/domain"
)

// CombinedData bundles every source needed to render a full dashboard
// view in one load.
type CombinedData struct {
	WorldBank    domain.Dataset             `json:"wb_poverty"`
	India        domain.Dataset             `json:"india_poverty"`
	Metadata     []domain.CountryMeta       `json:"wb_metadata"`
	Demographics []domain.StateDemographics `json:"india_demographics"`
}

// LoadCombined fetches the World Bank panel, the India panel, and both
// reference tables concurrently, honoring the filter's year range and
// entity lists. Any single failure fails the whole load.
func (l *Loader) LoadCombined(ctx context.Context, spec domain.FilterSpec) (*CombinedData, error) {
	startYear, endYear := l.config.StartYear, l.config.EndYear
	if spec.YearRange != nil {
		startYear, endYear = spec.YearRange.Start, spec.YearRange.End
	}

	combined := &CombinedData{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := l.Load(ctx, Request{
			Kind:      KindWorldBankPoverty,
			StartYear: startYear,
			EndYear:   endYear,
			Countries: spec.Countries,
		})
		combined.WorldBank = data
		return err
	})
	g.Go(func() error {
		data, err := l.Load(ctx, Request{
			Kind:      KindIndiaPoverty,
			StartYear: startYear,
			EndYear:   endYear,
			States:    spec.States,
			AreaType:  spec.AreaType,
		})
		combined.India = data
		return err
	})
	g.Go(func() error {
		meta, err := l.LoadCountryMetadata(ctx)
		combined.Metadata = meta
		return err
	})
	g.Go(func() error {
		demo, err := l.LoadStateDemographics(ctx, spec.States)
		combined.Demographics = demo
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return combined, nil
}
