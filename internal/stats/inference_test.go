package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTest(t *testing.T) {
	t.Run("clearly separated groups are significant", func(t *testing.T) {
		a := []float64{10, 11, 9, 10.5, 9.5, 10.2}
		b := []float64{20, 21, 19, 20.5, 19.5, 20.2}

		result, err := TTest(a, b, TwoSided, 0.95)
		require.NoError(t, err)
		assert.True(t, result.Significant)
		assert.Less(t, result.PValue, 0.05)
		assert.Negative(t, result.Statistic)
		assert.InDelta(t, 10.03, result.MeanA, 0.01)
		assert.InDelta(t, 20.03, result.MeanB, 0.01)
	})

	t.Run("same distribution is not significant", func(t *testing.T) {
		a := []float64{10, 12, 11, 9, 10, 11, 12, 9}
		b := []float64{11, 10, 12, 10, 9, 11, 10, 12}

		result, err := TTest(a, b, TwoSided, 0.95)
		require.NoError(t, err)
		assert.False(t, result.Significant)
		assert.Greater(t, result.PValue, 0.05)
	})

	t.Run("one-sided less", func(t *testing.T) {
		a := []float64{1, 2, 3, 2, 1}
		b := []float64{8, 9, 10, 9, 8}

		result, err := TTest(a, b, Less, 0.95)
		require.NoError(t, err)
		assert.True(t, result.Significant)
	})

	t.Run("empty group is inconclusive", func(t *testing.T) {
		result, err := TTest(nil, []float64{1, 2, 3}, TwoSided, 0.95)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.False(t, result.Significant)
		assert.InDelta(t, 1.0, result.PValue, 1e-9)
	})

	t.Run("constant combined data is not computable", func(t *testing.T) {
		_, err := TTest([]float64{5, 5, 5}, []float64{5, 5, 5}, TwoSided, 0.95)
		assert.ErrorIs(t, err, ErrNotComputable)
	})
}

func TestOneWayANOVA(t *testing.T) {
	t.Run("different means are significant", func(t *testing.T) {
		groups := [][]float64{
			{1, 2, 1.5, 2.5, 2},
			{10, 11, 10.5, 11.5, 11},
			{20, 21, 20.5, 21.5, 21},
		}
		result, err := OneWayANOVA(groups, 0.95)
		require.NoError(t, err)
		assert.True(t, result.Significant)
		assert.Equal(t, 3, result.NumGroups)
		assert.Positive(t, result.FStatistic)
	})

	t.Run("fewer than two groups", func(t *testing.T) {
		_, err := OneWayANOVA([][]float64{{1, 2, 3}}, 0.95)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestConfidenceInterval(t *testing.T) {
	values := []float64{10, 12, 11, 9, 10, 11, 12, 9, 10, 11}

	lower, upper, err := ConfidenceInterval(values, 0.95)
	require.NoError(t, err)
	assert.Less(t, lower, upper)

	// The sample mean lies inside its own interval.
	mean := 10.5
	assert.Greater(t, mean, lower)
	assert.Less(t, mean, upper)

	// Wider confidence widens the interval.
	lower99, upper99, err := ConfidenceInterval(values, 0.99)
	require.NoError(t, err)
	assert.Less(t, lower99, lower)
	assert.Greater(t, upper99, upper)

	_, _, err = ConfidenceInterval(nil, 0.95)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
