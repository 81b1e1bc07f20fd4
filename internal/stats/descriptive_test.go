package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})

		assert.Equal(t, 8, s.Count)
		assert.InDelta(t, 5.0, s.Mean, 1e-9)
		assert.InDelta(t, 4.5, s.Median, 1e-9)
		// Population std of the classic example set is exactly 2.
		assert.InDelta(t, 2.0, s.Std, 1e-9)
		assert.InDelta(t, 4.0, s.Variance, 1e-9)
		assert.InDelta(t, 2.0, s.Min, 1e-9)
		assert.InDelta(t, 9.0, s.Max, 1e-9)
		assert.InDelta(t, 7.0, s.Range, 1e-9)
	})

	t.Run("empty input yields zero record", func(t *testing.T) {
		s := Summarize(nil)
		assert.True(t, s.Empty())
		assert.Equal(t, 0, s.Count)
	})

	t.Run("all missing yields zero record", func(t *testing.T) {
		s := Summarize([]float64{math.NaN(), math.NaN()})
		assert.True(t, s.Empty())
	})

	t.Run("missing values are dropped", func(t *testing.T) {
		s := Summarize([]float64{1, math.NaN(), 3})
		assert.Equal(t, 2, s.Count)
		assert.InDelta(t, 2.0, s.Mean, 1e-9)
	})

	t.Run("constant data has zero spread and zero shape", func(t *testing.T) {
		s := Summarize([]float64{5, 5, 5, 5})
		assert.Equal(t, 4, s.Count)
		assert.InDelta(t, 5.0, s.Mean, 1e-9)
		assert.Zero(t, s.Std)
		assert.Zero(t, s.Variance)
		assert.Zero(t, s.IQR)
		assert.Zero(t, s.Skewness)
		assert.Zero(t, s.Kurtosis)
		assert.False(t, math.IsNaN(s.Skewness))
	})

	t.Run("single value", func(t *testing.T) {
		s := Summarize([]float64{42})
		assert.Equal(t, 1, s.Count)
		assert.InDelta(t, 42.0, s.Median, 1e-9)
		assert.Zero(t, s.Std)
	})
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"q25 interpolates", 25, 1.75},
		{"median interpolates", 50, 2.5},
		{"q75 interpolates", 75, 3.25},
		{"p0 is min", 0, 1},
		{"p100 is max", 100, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-9)
		})
	}
}

func TestSummarizeQuartiles(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4, 5})
	require.Equal(t, 5, s.Count)
	assert.InDelta(t, 2.0, s.Q25, 1e-9)
	assert.InDelta(t, 3.0, s.Q50, 1e-9)
	assert.InDelta(t, 4.0, s.Q75, 1e-9)
	assert.InDelta(t, 2.0, s.IQR, 1e-9)
}

func TestSummarizeSkewness(t *testing.T) {
	// Right-skewed data has positive skewness.
	right := Summarize([]float64{1, 1, 1, 2, 2, 3, 10})
	assert.Positive(t, right.Skewness)

	// Symmetric data has (near) zero skewness.
	sym := Summarize([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, 0.0, sym.Skewness, 1e-9)
}
