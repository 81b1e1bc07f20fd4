package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"povdash/pkg/contracts/domain"
)

// Summarize computes the full descriptive record over a numeric column.
// Missing (NaN) entries are dropped first; if nothing remains the zero
// record is returned. Std and Variance are population moments to match
// the upstream data pipeline, and Kurtosis is excess kurtosis (0 for a
// normal distribution).
func Summarize(values []float64) domain.SummaryStats {
	data := dropMissing(values)
	if len(data) == 0 {
		return domain.SummaryStats{}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mean := stat.Mean(data, nil)
	m2 := stat.Moment(2, data, nil)
	q25 := Percentile(sorted, 25)
	q50 := Percentile(sorted, 50)
	q75 := Percentile(sorted, 75)

	return domain.SummaryStats{
		Count:    len(data),
		Mean:     mean,
		Median:   q50,
		Std:      math.Sqrt(m2),
		Variance: m2,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Range:    sorted[len(sorted)-1] - sorted[0],
		Q25:      q25,
		Q50:      q50,
		Q75:      q75,
		IQR:      q75 - q25,
		Skewness: momentSkewness(data, m2),
		Kurtosis: momentKurtosis(data, m2),
	}
}

// Percentile returns the p-th percentile (0..100) of sorted data using
// linear interpolation between closest ranks. gonum's stat.Quantile
// kinds follow different interpolation conventions, so the rank
// arithmetic is done here to keep quartiles consistent with the rest of
// the pipeline.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := (float64(n) - 1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// momentSkewness is the Fisher moment-based estimator m3 / m2^(3/2).
// Constant data has undefined skewness; it is reported as 0.
func momentSkewness(data []float64, m2 float64) float64 {
	if m2 == 0 {
		return 0
	}
	m3 := stat.Moment(3, data, nil)
	return m3 / math.Pow(m2, 1.5)
}

// momentKurtosis is the Fisher excess kurtosis m4 / m2^2 - 3, with the
// same constant-data guard as skewness.
func momentKurtosis(data []float64, m2 float64) float64 {
	if m2 == 0 {
		return 0
	}
	m4 := stat.Moment(4, data, nil)
	return m4/(m2*m2) - 3
}

// dropMissing returns values with NaN entries removed.
func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
