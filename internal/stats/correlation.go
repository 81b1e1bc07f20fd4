package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"povdash/pkg/contracts/domain"
)

// CorrelationMethod identifies the pairwise association estimator.
type CorrelationMethod string

const (
	Pearson  CorrelationMethod = "pearson"
	Spearman CorrelationMethod = "spearman"
	Kendall  CorrelationMethod = "kendall"
)

// ParseCorrelationMethod validates a method identifier from an external
// caller.
func ParseCorrelationMethod(s string) (CorrelationMethod, error) {
	switch CorrelationMethod(s) {
	case Pearson, Spearman, Kendall:
		return CorrelationMethod(s), nil
	}
	return "", fmt.Errorf("unknown correlation method %q", s)
}

// Correlate computes the pairwise association matrix over the table's
// columns. Rows with a missing value in either column of a pair are
// dropped pairwise. An empty table yields an empty matrix with
// ErrEmptyInput; a degenerate pair (constant column, too few complete
// rows) yields an empty matrix with ErrComputation so callers can
// distinguish the two before degrading to "no data".
func Correlate(t *domain.Table, method CorrelationMethod) (domain.CorrelationMatrix, error) {
	if t.Empty() {
		return domain.CorrelationMatrix{}, ErrEmptyInput
	}

	cols := t.Columns
	p := len(cols)
	values := make([][]float64, p)
	for i := range values {
		values[i] = make([]float64, p)
		values[i][i] = 1
	}

	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			x, y := pairwiseComplete(t.Column(cols[i]), t.Column(cols[j]))
			r, err := correlate(x, y, method)
			if err != nil {
				return domain.CorrelationMatrix{}, fmt.Errorf("%w: %s vs %s: %v", ErrComputation, cols[i], cols[j], err)
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	names := make([]string, p)
	copy(names, cols)
	return domain.CorrelationMatrix{Columns: names, Values: values}, nil
}

func correlate(x, y []float64, method CorrelationMethod) (float64, error) {
	if len(x) < 2 {
		return 0, fmt.Errorf("%d complete observations", len(x))
	}

	var r float64
	switch method {
	case Pearson:
		r = stat.Correlation(x, y, nil)
	case Spearman:
		r = stat.Correlation(rank(x), rank(y), nil)
	case Kendall:
		r = stat.Kendall(x, y, nil)
	default:
		return 0, fmt.Errorf("unknown method %q", method)
	}

	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("degenerate column pair")
	}
	return r, nil
}

// pairwiseComplete keeps only the positions where both vectors carry a
// value, matching pairwise-complete correlation semantics.
func pairwiseComplete(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	cx := make([]float64, 0, n)
	cy := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		cx = append(cx, x[i])
		cy = append(cy, y[i])
	}
	return cx, cy
}

// rank assigns average ranks (ties share the mean of their rank span),
// the transform behind Spearman's rho.
func rank(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
