package datasource

import "povdash/pkg/contracts/domain"

// worldBankPoverty generates the country-level indicator panel. Each
// country gets a stable base rate and yearly trend with small noise,
// clamped to the 0–100 range the real indicator reports.
//
// TODO: replace with the live World Bank API fetch
// (GET {base}/country/all/indicator/{code}?date=start:end&format=json)
// once API access is provisioned; the row schema already matches.
func (l *Loader) worldBankPoverty(req Request) domain.Dataset {
	indicator := req.Indicator
	if indicator == "" {
		indicator = DefaultIndicatorCode
	}
	countries := req.Countries
	if len(countries) == 0 {
		countries = DefaultCountries
	}

	data := make(domain.Dataset, 0, len(countries)*(req.EndYear-req.StartYear+1))
	for _, country := range countries {
		rng := l.entityRand("wb", indicator, country)
		base := uniform(rng, 5, 40)
		trend := uniform(rng, -0.5, 0.3)

		for year := req.StartYear; year <= req.EndYear; year++ {
			i := float64(year - req.StartYear)
			value := base + trend*i + rng.NormFloat64()*2
			data = append(data, domain.Observation{
				Country:     country,
				CountryName: countryDisplayName(country),
				Year:        year,
				Value:       round2(clamp(value, 0, 100)),
				Indicator:   indicator,
			})
		}
	}
	return data
}

// countryDisplayName resolves a code against the metadata panel,
// falling back to the code itself for countries outside it.
func countryDisplayName(code string) string {
	for _, m := range countryMetadata {
		if m.CountryCode == code {
			return m.Name
		}
	}
	return code
}
