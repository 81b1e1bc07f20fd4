package datasource

import "povdash/pkg/contracts/domain"

// indiaPoverty generates the state-level panel with the regional
// pattern of the real data: rural rates run higher than urban, both
// decline over time. The request's area type narrows which rows are
// generated; "All" produces both.
//
// TODO: replace with the data.gov.in resource fetch once an API key is
// provisioned; the row schema already matches.
func (l *Loader) indiaPoverty(req Request) domain.Dataset {
	indicator := req.Indicator
	if indicator == "" {
		indicator = IndiaIndicators[0]
	}
	states := req.States
	if len(states) == 0 {
		states = IndianStates
	}

	wantRural := req.AreaType == domain.AreaTypeAll || req.AreaType == "Rural"
	wantUrban := req.AreaType == domain.AreaTypeAll || req.AreaType == "Urban"

	data := make(domain.Dataset, 0, 2*len(states)*(req.EndYear-req.StartYear+1))
	for _, state := range states {
		rng := l.entityRand("india", indicator, state)
		baseRural := uniform(rng, 15, 50)
		baseUrban := baseRural * uniform(rng, 0.3, 0.7)
		trend := uniform(rng, -0.8, -0.1)

		for year := req.StartYear; year <= req.EndYear; year++ {
			i := float64(year - req.StartYear)
			if wantRural {
				value := baseRural + trend*i + rng.NormFloat64()*3
				data = append(data, domain.Observation{
					State:     state,
					Year:      year,
					AreaType:  "Rural",
					Indicator: indicator,
					Value:     round2(clamp(value, 0, 100)),
				})
			}
			if wantUrban {
				value := baseUrban + trend*i + rng.NormFloat64()*2
				data = append(data, domain.Observation{
					State:     state,
					Year:      year,
					AreaType:  "Urban",
					Indicator: indicator,
					Value:     round2(clamp(value, 0, 100)),
				})
			}
		}
	}
	return data
}

// indiaMultiIndicator concatenates the state panel across every India
// indicator, the long shape the correlation pivot consumes.
func (l *Loader) indiaMultiIndicator(req Request) domain.Dataset {
	var data domain.Dataset
	for _, indicator := range IndiaIndicators {
		sub := req
		sub.Indicator = indicator
		data = append(data, l.indiaPoverty(sub)...)
	}
	return data
}
