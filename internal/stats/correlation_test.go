package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/pkg/contracts/domain"
)

func corrTable() *domain.Table {
	t := domain.NewTable()
	t.AddColumn("poverty_rate", []float64{40, 35, 30, 25, 20})
	t.AddColumn("literacy_rate", []float64{50, 58, 66, 74, 82})
	t.AddColumn("unemployment", []float64{9, 7, 8, 5, 6})
	return t
}

func TestCorrelate(t *testing.T) {
	for _, method := range []CorrelationMethod{Pearson, Spearman, Kendall} {
		t.Run(string(method), func(t *testing.T) {
			m, err := Correlate(corrTable(), method)
			require.NoError(t, err)
			require.Len(t, m.Columns, 3)

			// Unit diagonal and symmetry hold for every method.
			for i := range m.Columns {
				assert.InDelta(t, 1.0, m.At(i, i), 1e-9)
				for j := range m.Columns {
					assert.InDelta(t, m.At(i, j), m.At(j, i), 1e-9)
					assert.LessOrEqual(t, math.Abs(m.At(i, j)), 1+1e-9)
				}
			}
		})
	}
}

func TestCorrelatePerfectRelationship(t *testing.T) {
	tbl := domain.NewTable()
	tbl.AddColumn("a", []float64{1, 2, 3, 4, 5})
	tbl.AddColumn("b", []float64{2, 4, 6, 8, 10})

	m, err := Correlate(tbl, Pearson)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
}

func TestCorrelateNegativeRelationship(t *testing.T) {
	tbl := domain.NewTable()
	tbl.AddColumn("a", []float64{1, 2, 3, 4, 5})
	tbl.AddColumn("b", []float64{10, 8, 6, 4, 2})

	m, err := Correlate(tbl, Spearman)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-9)
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	// Rows with a missing value in either column are dropped pairwise,
	// so the remaining perfect relationship still scores 1.
	tbl := domain.NewTable()
	tbl.AddColumn("a", []float64{1, 2, math.NaN(), 4, 5})
	tbl.AddColumn("b", []float64{2, 4, 6, 8, math.NaN()})

	m, err := Correlate(tbl, Pearson)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
}

func TestCorrelateEmptyTable(t *testing.T) {
	_, err := Correlate(domain.NewTable(), Pearson)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCorrelateConstantColumn(t *testing.T) {
	tbl := domain.NewTable()
	tbl.AddColumn("a", []float64{1, 2, 3})
	tbl.AddColumn("b", []float64{7, 7, 7})

	_, err := Correlate(tbl, Pearson)
	assert.ErrorIs(t, err, ErrComputation)
}

func TestParseCorrelationMethod(t *testing.T) {
	m, err := ParseCorrelationMethod("spearman")
	require.NoError(t, err)
	assert.Equal(t, Spearman, m)

	_, err = ParseCorrelationMethod("cosine")
	assert.Error(t, err)
}
