package domain

import "fmt"

// AreaTypeAll is the sentinel area type meaning "no restriction".
const AreaTypeAll = "All"

// YearRange is an inclusive [Start, End] year interval.
type YearRange struct {
	Start int `json:"start" validate:"min=1900"`
	End   int `json:"end" validate:"min=1900"`
}

// Contains reports whether year falls inside the range, bounds included.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// FilterSpec selects dataset rows. Every supplied predicate must hold
// for a row to pass; nil or empty fields impose no restriction, and
// predicates over columns absent from the dataset schema are skipped.
type FilterSpec struct {
	YearRange  *YearRange `json:"year_range,omitempty"`
	States     []string   `json:"states,omitempty"`
	Countries  []string   `json:"countries,omitempty"`
	Indicators []string   `json:"indicators,omitempty"`
	AreaType   string     `json:"area_type,omitempty"`
}

// String renders the spec canonically for use as part of a cache key:
// the year range prints by value (empty when nil), so deeply-equal
// specs always render identically regardless of pointer identity.
func (f FilterSpec) String() string {
	years := ""
	if f.YearRange != nil {
		years = fmt.Sprintf("%d-%d", f.YearRange.Start, f.YearRange.End)
	}
	return fmt.Sprintf("{years:%s states:%v countries:%v indicators:%v area:%s}",
		years, f.States, f.Countries, f.Indicators, f.AreaType)
}

// RestrictsAreaType reports whether the area type predicate is active.
// "All" and the empty string are no-ops.
func (f FilterSpec) RestrictsAreaType() bool {
	return f.AreaType != "" && f.AreaType != AreaTypeAll
}
