package domain

import (
	"math"
	"strconv"
	"strings"
)

// Observation represents a single poverty statistic measurement.
// Global (World Bank) rows carry Country/CountryName/Region, Indian
// state rows carry State/AreaType. A missing numeric value is NaN,
// a missing category is the empty string; this mirrors the tabular
// NaN semantics of the upstream data sources.
type Observation struct {
	Country     string  `json:"country,omitempty" csv:"Country"`
	CountryName string  `json:"country_name,omitempty" csv:"CountryName"`
	State       string  `json:"state,omitempty" csv:"State"`
	Region      string  `json:"region,omitempty" csv:"Region"`
	AreaType    string  `json:"area_type,omitempty" csv:"AreaType"`
	Indicator   string  `json:"indicator,omitempty" csv:"Indicator"`
	Year        int     `json:"year" csv:"Year"`
	Value       float64 `json:"value" csv:"Value"`
}

// HasValue reports whether the observation carries a numeric value.
func (o Observation) HasValue() bool {
	return !math.IsNaN(o.Value)
}

// Key returns a canonical string identity for exact-duplicate detection.
// NaN values format identically, so duplicate rows with missing values
// still collapse to one key.
func (o Observation) Key() string {
	var b strings.Builder
	b.WriteString(o.Country)
	b.WriteByte('|')
	b.WriteString(o.CountryName)
	b.WriteByte('|')
	b.WriteString(o.State)
	b.WriteByte('|')
	b.WriteString(o.Region)
	b.WriteByte('|')
	b.WriteString(o.AreaType)
	b.WriteByte('|')
	b.WriteString(o.Indicator)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(o.Year))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(o.Value, 'g', -1, 64))
	return b.String()
}

// Dataset is an ordered collection of observations sharing one schema.
// Insertion order is not significant; only column semantics matter.
type Dataset []Observation

// Empty reports whether the dataset has no rows.
func (d Dataset) Empty() bool { return len(d) == 0 }

// Values returns the value column, including NaN entries.
func (d Dataset) Values() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = o.Value
	}
	return out
}

// Years returns the year column.
func (d Dataset) Years() []int {
	out := make([]int, len(d))
	for i, o := range d {
		out[i] = o.Year
	}
	return out
}

// MaxYear returns the latest observed year, or 0 for an empty dataset.
func (d Dataset) MaxYear() int {
	max := 0
	for _, o := range d {
		if o.Year > max {
			max = o.Year
		}
	}
	return max
}

// HasStates reports whether the state column is present in the schema,
// i.e. at least one row carries a state name.
func (d Dataset) HasStates() bool {
	for _, o := range d {
		if o.State != "" {
			return true
		}
	}
	return false
}

// HasCountries reports whether the country column is present in the schema.
func (d Dataset) HasCountries() bool {
	for _, o := range d {
		if o.Country != "" {
			return true
		}
	}
	return false
}

// HasIndicators reports whether the indicator column is present in the schema.
func (d Dataset) HasIndicators() bool {
	for _, o := range d {
		if o.Indicator != "" {
			return true
		}
	}
	return false
}

// HasAreaTypes reports whether the area type column is present in the schema.
func (d Dataset) HasAreaTypes() bool {
	for _, o := range d {
		if o.AreaType != "" {
			return true
		}
	}
	return false
}

// CountryMeta holds World Bank country reference data.
type CountryMeta struct {
	CountryCode string `json:"country_code"`
	Name        string `json:"name"`
	Region      string `json:"region"`
	IncomeLevel string `json:"income_level"`
}

// StateDemographics holds census-style reference data for an Indian state.
type StateDemographics struct {
	State              string  `json:"state"`
	Population         int64   `json:"population"`
	RuralPopulationPct float64 `json:"rural_population_pct"`
	UrbanPopulationPct float64 `json:"urban_population_pct"`
	LiteracyRate       float64 `json:"literacy_rate"`
	GDPPerCapita       float64 `json:"gdp_per_capita"`
}
