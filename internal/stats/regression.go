package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"povdash/pkg/contracts/domain"
)

// LinearRegression fits ordinary least squares of y on the feature
// matrix x (n rows, p columns). Rows containing a missing value in
// either x or y are dropped jointly. When nothing remains after the
// drop a zeroed result is returned together with ErrEmptyInput rather
// than a failure; an ill-conditioned system returns ErrComputation.
func LinearRegression(x [][]float64, y []float64) (domain.RegressionResult, error) {
	if len(x) != len(y) {
		return domain.RegressionResult{}, fmt.Errorf("%w: %d feature rows vs %d targets", ErrComputation, len(x), len(y))
	}

	cx, cy := dropMissingRows(x, y)
	if len(cx) == 0 {
		return domain.RegressionResult{}, ErrEmptyInput
	}

	n := len(cx)
	p := len(cx[0])

	// Design matrix with a leading intercept column.
	a := mat.NewDense(n, p+1, nil)
	b := mat.NewVecDense(n, cy)
	for i, row := range cx {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return domain.RegressionResult{}, fmt.Errorf("%w: least squares solve: %v", ErrComputation, err)
	}

	coeffs := make([]float64, p)
	for j := 0; j < p; j++ {
		coeffs[j] = beta.AtVec(j + 1)
	}
	intercept := beta.AtVec(0)

	preds := make([]float64, n)
	for i, row := range cx {
		pred := intercept
		for j, v := range row {
			pred += coeffs[j] * v
		}
		preds[i] = pred
	}

	r2 := RSquared(cy, preds)
	return domain.RegressionResult{
		Coefficients: coeffs,
		Intercept:    intercept,
		R2:           r2,
		AdjustedR2:   adjustedR2(r2, n, p),
		RMSE:         RMSE(cy, preds),
		MAE:          MAE(cy, preds),
	}, nil
}

// adjustedR2 applies the degrees-of-freedom correction
// 1 − (1−R²)(n−1)/(n−p−1). The correction is undefined when
// n − p − 1 <= 0; that case reports 0 instead of dividing by zero.
func adjustedR2(r2 float64, n, p int) float64 {
	dof := n - p - 1
	if dof <= 0 {
		return 0
	}
	return 1 - (1-r2)*float64(n-1)/float64(dof)
}

// RSquared is the coefficient of determination. A constant target has
// no variance to explain: a perfect fit reports 1, anything else 0.
func RSquared(actual, predicted []float64) float64 {
	var ssRes, ssTot float64
	mean := meanOf(actual)
	for i, a := range actual {
		d := a - predicted[i]
		ssRes += d * d
		t := a - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// RMSE is the root mean squared error.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i, a := range actual {
		d := a - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// MAE is the mean absolute error.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i, a := range actual {
		sum += math.Abs(a - predicted[i])
	}
	return sum / float64(len(actual))
}

// dropMissingRows removes every row where any feature or the target is
// missing, keeping x and y aligned.
func dropMissingRows(x [][]float64, y []float64) ([][]float64, []float64) {
	cx := make([][]float64, 0, len(x))
	cy := make([]float64, 0, len(y))
rows:
	for i, row := range x {
		if math.IsNaN(y[i]) {
			continue
		}
		for _, v := range row {
			if math.IsNaN(v) {
				continue rows
			}
		}
		cx = append(cx, row)
		cy = append(cy, y[i])
	}
	return cx, cy
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
