package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OutlierMethod selects the outlier detection rule.
type OutlierMethod string

const (
	OutlierIQR    OutlierMethod = "iqr"
	OutlierZScore OutlierMethod = "zscore"
)

// ZScores standardizes values against the NaN-ignoring mean and
// population standard deviation. Constant data yields all zeros.
func ZScores(values []float64) []float64 {
	data := dropMissing(values)
	out := make([]float64, len(values))
	if len(data) == 0 {
		return out
	}
	mean := stat.Mean(data, nil)
	std := math.Sqrt(stat.Moment(2, data, nil))
	if std == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

// DetectOutliers returns a mask marking values outside the chosen
// band: [Q1 − t·IQR, Q3 + t·IQR] for the IQR rule, |z| > t for the
// z-score rule. Quantiles are computed over present values only; NaN
// entries are never flagged. An unknown method flags nothing.
func DetectOutliers(values []float64, method OutlierMethod, threshold float64) []bool {
	mask := make([]bool, len(values))

	switch method {
	case OutlierIQR:
		lower, upper, ok := IQRBounds(values, threshold)
		if !ok {
			return mask
		}
		for i, v := range values {
			if !math.IsNaN(v) && (v < lower || v > upper) {
				mask[i] = true
			}
		}
	case OutlierZScore:
		for i, z := range ZScores(values) {
			if !math.IsNaN(z) && math.Abs(z) > threshold {
				mask[i] = true
			}
		}
	}
	return mask
}

// IQRBounds returns the [Q1 − t·IQR, Q3 + t·IQR] band over the present
// values. ok is false when no values are present.
func IQRBounds(values []float64, threshold float64) (lower, upper float64, ok bool) {
	data := dropMissing(values)
	if len(data) == 0 {
		return 0, 0, false
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)
	iqr := q3 - q1
	return q1 - threshold*iqr, q3 + threshold*iqr, true
}

// GrowthRate computes percentage change over the given period lag. The
// first `periods` entries have no base and are NaN, as is any entry
// whose base value is zero. Series shorter than periods+1 yield an
// empty result.
func GrowthRate(values []float64, periods int) []float64 {
	if periods < 1 || len(values) < periods+1 {
		return nil
	}
	out := make([]float64, len(values))
	for i := 0; i < periods; i++ {
		out[i] = math.NaN()
	}
	for i := periods; i < len(values); i++ {
		base := values[i-periods]
		if base == 0 || math.IsNaN(base) || math.IsNaN(values[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (values[i] - base) / base * 100
	}
	return out
}

// MovingAverage computes the window-sized rolling mean ("valid" mode:
// only full windows). Series shorter than the window are returned
// unchanged.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 || len(values) < window {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}
