package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRegression(t *testing.T) {
	t.Run("recovers y = 2x + 3", func(t *testing.T) {
		x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
		y := []float64{5, 7, 9, 11, 13, 15}

		result, err := LinearRegression(x, y)
		require.NoError(t, err)
		require.Len(t, result.Coefficients, 1)
		assert.InDelta(t, 2.0, result.Coefficients[0], 1e-6)
		assert.InDelta(t, 3.0, result.Intercept, 1e-6)
		assert.InDelta(t, 1.0, result.R2, 1e-9)
		assert.InDelta(t, 0.0, result.RMSE, 1e-6)
		assert.InDelta(t, 0.0, result.MAE, 1e-6)
	})

	t.Run("two features", func(t *testing.T) {
		// y = x1 + 2*x2 with no noise.
		x := [][]float64{{1, 1}, {2, 1}, {3, 2}, {4, 3}, {5, 5}, {6, 8}}
		y := make([]float64, len(x))
		for i, row := range x {
			y[i] = row[0] + 2*row[1]
		}

		result, err := LinearRegression(x, y)
		require.NoError(t, err)
		require.Len(t, result.Coefficients, 2)
		assert.InDelta(t, 1.0, result.Coefficients[0], 1e-6)
		assert.InDelta(t, 2.0, result.Coefficients[1], 1e-6)
		assert.InDelta(t, 1.0, result.R2, 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := LinearRegression(nil, nil)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("rows with missing values are dropped", func(t *testing.T) {
		x := [][]float64{{1}, {math.NaN()}, {3}, {4}, {5}}
		y := []float64{5, 7, 9, math.NaN(), 13}

		result, err := LinearRegression(x, y)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, result.Coefficients[0], 1e-6)
		assert.InDelta(t, 3.0, result.Intercept, 1e-6)
	})

	t.Run("adjusted r2 guard for tiny samples", func(t *testing.T) {
		x := [][]float64{{1}, {2}}
		y := []float64{1, 2}

		result, err := LinearRegression(x, y)
		require.NoError(t, err)
		// n - p - 1 == 0: adjusted R² is reported as 0, not NaN.
		assert.Zero(t, result.AdjustedR2)
	})
}

func TestRSquared(t *testing.T) {
	actual := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, RSquared(actual, actual), 1e-9)

	// Constant actuals: 1 for an exact fit, 0 otherwise.
	constant := []float64{5, 5, 5}
	assert.InDelta(t, 1.0, RSquared(constant, []float64{5, 5, 5}), 1e-9)
	assert.InDelta(t, 0.0, RSquared(constant, []float64{4, 5, 6}), 1e-9)
}

func TestErrorMetrics(t *testing.T) {
	actual := []float64{1, 2, 3}
	predicted := []float64{2, 2, 5}

	assert.InDelta(t, 1.0, MAE(actual, predicted), 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), RMSE(actual, predicted), 1e-9)
}
