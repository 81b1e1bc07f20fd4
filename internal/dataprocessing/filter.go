package dataprocessing

import (
	"povdash/pkg/contracts/domain"
)

// Filter returns the rows satisfying every supplied predicate of the
// spec. Predicates over columns absent from the dataset schema are
// silently skipped, year bounds are inclusive on both ends, the "All"
// area type is a no-op, and empty list filters impose no restriction.
func Filter(d domain.Dataset, spec domain.FilterSpec) domain.Dataset {
	if d.Empty() {
		return d
	}

	states := toSet(spec.States)
	countries := toSet(spec.Countries)
	indicators := toSet(spec.Indicators)

	filterStates := len(states) > 0 && d.HasStates()
	filterCountries := len(countries) > 0 && d.HasCountries()
	filterIndicators := len(indicators) > 0 && d.HasIndicators()
	filterAreaType := spec.RestrictsAreaType() && d.HasAreaTypes()

	out := make(domain.Dataset, 0, len(d))
	for _, o := range d {
		if spec.YearRange != nil && !spec.YearRange.Contains(o.Year) {
			continue
		}
		if filterStates {
			if _, ok := states[o.State]; !ok {
				continue
			}
		}
		if filterCountries {
			if _, ok := countries[o.Country]; !ok {
				continue
			}
		}
		if filterIndicators {
			if _, ok := indicators[o.Indicator]; !ok {
				continue
			}
		}
		if filterAreaType && o.AreaType != spec.AreaType {
			continue
		}
		out = append(out, o)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
