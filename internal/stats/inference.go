package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alternative selects the tail of a hypothesis test.
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Less     Alternative = "less"
	Greater  Alternative = "greater"
)

// TTestResult reports an independent two-sample t-test.
type TTestResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"pvalue"`
	Significant bool    `json:"significant"`
	MeanA       float64 `json:"mean_group1"`
	MeanB       float64 `json:"mean_group2"`
	StdA        float64 `json:"std_group1"`
	StdB        float64 `json:"std_group2"`
}

// TTest runs a pooled-variance independent t-test between two groups at
// the given confidence level. Missing values are dropped per group; an
// empty group yields the inconclusive zero result with ErrEmptyInput,
// and constant combined data yields ErrNotComputable.
func TTest(groupA, groupB []float64, alternative Alternative, confidence float64) (TTestResult, error) {
	a := dropMissing(groupA)
	b := dropMissing(groupB)
	inconclusive := TTestResult{PValue: 1}

	if len(a) == 0 || len(b) == 0 {
		return inconclusive, ErrEmptyInput
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA := stat.Mean(a, nil)
	meanB := stat.Mean(b, nil)
	varA := stat.Moment(2, a, nil)
	varB := stat.Moment(2, b, nil)

	dof := na + nb - 2
	if dof <= 0 {
		return inconclusive, fmt.Errorf("%w: %v degrees of freedom", ErrNotComputable, dof)
	}
	// Pooled variance uses the unbiased per-group sums of squares.
	pooled := (varA*na + varB*nb) / dof
	if pooled == 0 {
		return inconclusive, fmt.Errorf("%w: zero pooled variance", ErrNotComputable)
	}

	t := (meanA - meanB) / math.Sqrt(pooled*(1/na+1/nb))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}

	var pvalue float64
	switch alternative {
	case Less:
		pvalue = dist.CDF(t)
	case Greater:
		pvalue = 1 - dist.CDF(t)
	default:
		pvalue = 2 * dist.CDF(-math.Abs(t))
	}

	return TTestResult{
		Statistic:   t,
		PValue:      pvalue,
		Significant: pvalue < 1-confidence,
		MeanA:       meanA,
		MeanB:       meanB,
		StdA:        math.Sqrt(varA),
		StdB:        math.Sqrt(varB),
	}, nil
}

// AnovaResult reports a one-way analysis of variance.
type AnovaResult struct {
	FStatistic  float64 `json:"f_statistic"`
	PValue      float64 `json:"pvalue"`
	Significant bool    `json:"significant"`
	NumGroups   int     `json:"num_groups"`
}

// OneWayANOVA tests whether the group means differ. Groups that are
// empty after dropping missing values are discarded; fewer than two
// surviving groups yields ErrEmptyInput.
func OneWayANOVA(groups [][]float64, confidence float64) (AnovaResult, error) {
	clean := make([][]float64, 0, len(groups))
	for _, g := range groups {
		if c := dropMissing(g); len(c) > 0 {
			clean = append(clean, c)
		}
	}
	inconclusive := AnovaResult{PValue: 1, NumGroups: len(clean)}
	if len(clean) < 2 {
		return inconclusive, ErrEmptyInput
	}

	var total int
	var grandSum float64
	for _, g := range clean {
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for _, g := range clean {
		m := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (m - grandMean) * (m - grandMean)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}

	dfBetween := float64(len(clean) - 1)
	dfWithin := float64(total - len(clean))
	if dfWithin <= 0 || ssWithin == 0 {
		return inconclusive, fmt.Errorf("%w: no within-group variance", ErrNotComputable)
	}

	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	pvalue := 1 - dist.CDF(f)

	return AnovaResult{
		FStatistic:  f,
		PValue:      pvalue,
		Significant: pvalue < 1-confidence,
		NumGroups:   len(clean),
	}, nil
}

// ConfidenceInterval returns the Student-t interval for the mean at the
// given confidence level. Fewer than two observations cannot support an
// interval and yield ErrNotComputable.
func ConfidenceInterval(values []float64, confidence float64) (lower, upper float64, err error) {
	data := dropMissing(values)
	if len(data) == 0 {
		return 0, 0, ErrEmptyInput
	}
	if len(data) < 2 {
		return 0, 0, fmt.Errorf("%w: need at least 2 observations", ErrNotComputable)
	}

	n := float64(len(data))
	mean := stat.Mean(data, nil)
	se := math.Sqrt(stat.Variance(data, nil) / n)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
	margin := se * dist.Quantile((1+confidence)/2)
	return mean - margin, mean + margin, nil
}
