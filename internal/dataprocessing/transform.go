package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"povdash/pkg/contracts/domain"
)

// Transformation names a value-column transform.
type Transformation string

const (
	TransformNone        Transformation = "none"
	TransformLog         Transformation = "log"
	TransformSqrt        Transformation = "sqrt"
	TransformNormalize   Transformation = "normalize"
	TransformStandardize Transformation = "standardize"
)

// Transform applies the named transform to the value column and returns
// a new dataset. Degenerate inputs (zero range, zero spread) pass
// through unchanged rather than dividing by zero.
func Transform(d domain.Dataset, t Transformation) domain.Dataset {
	if d.Empty() || t == TransformNone || t == "" {
		return d
	}

	out := make(domain.Dataset, len(d))
	copy(out, d)

	switch t {
	case TransformLog:
		for i := range out {
			out[i].Value = math.Log1p(out[i].Value)
		}
	case TransformSqrt:
		for i := range out {
			out[i].Value = math.Sqrt(out[i].Value)
		}
	case TransformNormalize:
		min, max := math.Inf(1), math.Inf(-1)
		for _, o := range out {
			if !o.HasValue() {
				continue
			}
			min = math.Min(min, o.Value)
			max = math.Max(max, o.Value)
		}
		if max > min {
			for i := range out {
				out[i].Value = (out[i].Value - min) / (max - min)
			}
		}
	case TransformStandardize:
		var sum, sq float64
		var n int
		for _, o := range out {
			if !o.HasValue() {
				continue
			}
			sum += o.Value
			sq += o.Value * o.Value
			n++
		}
		if n > 1 {
			mean := sum / float64(n)
			std := math.Sqrt((sq - sum*sum/float64(n)) / float64(n-1))
			if std > 0 {
				for i := range out {
					out[i].Value = (out[i].Value - mean) / std
				}
			}
		}
	}
	return out
}

// AggFunc names a group aggregation over the value column.
type AggFunc string

const (
	AggMean  AggFunc = "mean"
	AggSum   AggFunc = "sum"
	AggCount AggFunc = "count"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// GroupColumn names a category column usable as a group-by key.
type GroupColumn string

const (
	GroupByState     GroupColumn = "state"
	GroupByCountry   GroupColumn = "country"
	GroupByYear      GroupColumn = "year"
	GroupByAreaType  GroupColumn = "area_type"
	GroupByIndicator GroupColumn = "indicator"
)

// Aggregate groups rows by the given columns and reduces each group's
// value column with the aggregation function. Group keys absent from
// the schema are ignored; with no usable keys the input is returned
// unchanged. Missing values are dropped from each group before
// reducing. Output rows keep the grouped fields and appear in first-
// occurrence order.
func Aggregate(d domain.Dataset, groupBy []GroupColumn, fn AggFunc) domain.Dataset {
	if d.Empty() {
		return d
	}

	usable := usableColumns(d, groupBy)
	if len(usable) == 0 {
		return d
	}

	type group struct {
		row    domain.Observation
		values []float64
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, o := range d {
		key := groupKey(o, usable)
		g, ok := groups[key]
		if !ok {
			g = &group{row: projectColumns(o, usable)}
			groups[key] = g
			order = append(order, key)
		}
		if o.HasValue() {
			g.values = append(g.values, o.Value)
		}
	}

	out := make(domain.Dataset, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.row.Value = reduce(g.values, fn)
		out = append(out, g.row)
	}
	return out
}

func usableColumns(d domain.Dataset, groupBy []GroupColumn) []GroupColumn {
	out := make([]GroupColumn, 0, len(groupBy))
	for _, col := range groupBy {
		switch col {
		case GroupByState:
			if d.HasStates() {
				out = append(out, col)
			}
		case GroupByCountry:
			if d.HasCountries() {
				out = append(out, col)
			}
		case GroupByYear:
			out = append(out, col)
		case GroupByAreaType:
			if d.HasAreaTypes() {
				out = append(out, col)
			}
		case GroupByIndicator:
			if d.HasIndicators() {
				out = append(out, col)
			}
		}
	}
	return out
}

func groupKey(o domain.Observation, cols []GroupColumn) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		switch col {
		case GroupByState:
			parts[i] = o.State
		case GroupByCountry:
			parts[i] = o.Country
		case GroupByYear:
			parts[i] = strconv.Itoa(o.Year)
		case GroupByAreaType:
			parts[i] = o.AreaType
		case GroupByIndicator:
			parts[i] = o.Indicator
		}
	}
	return strings.Join(parts, "|")
}

func projectColumns(o domain.Observation, cols []GroupColumn) domain.Observation {
	var row domain.Observation
	for _, col := range cols {
		switch col {
		case GroupByState:
			row.State = o.State
		case GroupByCountry:
			row.Country = o.Country
			row.CountryName = o.CountryName
		case GroupByYear:
			row.Year = o.Year
		case GroupByAreaType:
			row.AreaType = o.AreaType
		case GroupByIndicator:
			row.Indicator = o.Indicator
		}
	}
	return row
}

func reduce(values []float64, fn AggFunc) float64 {
	if len(values) == 0 {
		if fn == AggCount {
			return 0
		}
		return math.NaN()
	}
	switch fn {
	case AggSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case AggCount:
		return float64(len(values))
	case AggMin:
		min := values[0]
		for _, v := range values[1:] {
			min = math.Min(min, v)
		}
		return min
	case AggMax:
		max := values[0]
		for _, v := range values[1:] {
			max = math.Max(max, v)
		}
		return max
	default:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}

// PivotIndicators reshapes a long multi-indicator dataset into a wide
// table: one row per (region, year) pair, one column per indicator,
// cells holding the mean value and NaN where a pair never observed an
// indicator. The wide shape feeds the correlation matrix.
func PivotIndicators(d domain.Dataset) *domain.Table {
	table := domain.NewTable()
	if d.Empty() {
		return table
	}

	indicators := make([]string, 0)
	seenInd := make(map[string]struct{})
	rowOrder := make([]string, 0)
	seenRow := make(map[string]int)

	type cell struct {
		sum float64
		n   int
	}
	cells := make(map[string]map[string]*cell) // row key -> indicator -> cell

	for _, o := range d {
		if o.Indicator == "" || !o.HasValue() {
			continue
		}
		rowKey := fmt.Sprintf("%s|%s|%d", o.State, o.Country, o.Year)
		if _, ok := seenRow[rowKey]; !ok {
			seenRow[rowKey] = len(rowOrder)
			rowOrder = append(rowOrder, rowKey)
			cells[rowKey] = make(map[string]*cell)
		}
		if _, ok := seenInd[o.Indicator]; !ok {
			seenInd[o.Indicator] = struct{}{}
			indicators = append(indicators, o.Indicator)
		}
		c := cells[rowKey][o.Indicator]
		if c == nil {
			c = &cell{}
			cells[rowKey][o.Indicator] = c
		}
		c.sum += o.Value
		c.n++
	}

	sort.Strings(indicators)
	for _, ind := range indicators {
		col := make([]float64, len(rowOrder))
		for i, rowKey := range rowOrder {
			if c := cells[rowKey][ind]; c != nil {
				col[i] = c.sum / float64(c.n)
			} else {
				col[i] = math.NaN()
			}
		}
		table.AddColumn(ind, col)
	}
	return table
}

// YearValueTable builds the two-column (year, value) table used by the
// regression and model-training paths. Rows without a value are kept;
// the downstream NaN drop handles them.
func YearValueTable(d domain.Dataset) *domain.Table {
	table := domain.NewTable()
	if d.Empty() {
		return table
	}
	years := make([]float64, len(d))
	values := make([]float64, len(d))
	for i, o := range d {
		years[i] = float64(o.Year)
		values[i] = o.Value
	}
	table.AddColumn("year", years)
	table.AddColumn("value", values)
	return table
}
