package dataprocessing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/pkg/contracts/domain"
)

func newTestCleaner() *Cleaner {
	return NewCleaner(nil, DefaultCleanerConfig())
}

func TestCleanDeduplicates(t *testing.T) {
	data := domain.Dataset{
		{State: "Bihar", Year: 2020, Value: 30},
		{State: "Bihar", Year: 2020, Value: 30},
		{State: "Kerala", Year: 2020, Value: 10},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	require.Len(t, out, 2)
	assert.Equal(t, "Bihar", out[0].State)
	assert.Equal(t, "Kerala", out[1].State)
}

func TestCleanDeduplicatesMissingValues(t *testing.T) {
	// Two rows identical except both carry NaN still collapse to one.
	data := domain.Dataset{
		{State: "Bihar", Year: 2020, Value: math.NaN()},
		{State: "Bihar", Year: 2020, Value: math.NaN()},
		{State: "Bihar", Year: 2021, Value: 28},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	assert.Len(t, out, 2)
}

func TestCleanImputesMedian(t *testing.T) {
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: 10},
		{State: "B", Year: 2020, Value: 20},
		{State: "C", Year: 2020, Value: 30},
		{State: "D", Year: 2020, Value: math.NaN()},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	require.Len(t, out, 4)
	for _, o := range out {
		if o.State == "D" {
			assert.InDelta(t, 20.0, o.Value, 1e-9)
		}
	}
}

func TestCleanAllMissingValuesKept(t *testing.T) {
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: math.NaN()},
		{State: "B", Year: 2020, Value: math.NaN()},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	require.Len(t, out, 2)
	for _, o := range out {
		assert.False(t, o.HasValue())
	}
}

func TestCleanImputesCategorySentinel(t *testing.T) {
	data := domain.Dataset{
		{State: "Bihar", Year: 2020, Value: 30},
		{State: "", Year: 2021, Value: 28},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	require.Len(t, out, 2)
	assert.Equal(t, "Unknown", out[1].State)
}

func TestCleanSkipsAbsentCategoryColumns(t *testing.T) {
	// No row carries a country, so the column is absent from the schema
	// and stays empty rather than being filled with the sentinel.
	data := domain.Dataset{
		{State: "Bihar", Year: 2020, Value: 30},
		{State: "Kerala", Year: 2021, Value: 10},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	for _, o := range out {
		assert.Empty(t, o.Country)
	}
}

func TestCleanTrimsExtremeOutliers(t *testing.T) {
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: 10},
		{State: "B", Year: 2020, Value: 12},
		{State: "C", Year: 2020, Value: 11},
		{State: "D", Year: 2020, Value: 9},
		{State: "E", Year: 2020, Value: 10},
		{State: "F", Year: 2020, Value: 11},
		{State: "G", Year: 2020, Value: 10000},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	require.Len(t, out, 6)
	for _, o := range out {
		assert.NotEqual(t, "G", o.State)
	}
}

func TestCleanKeepsMildOutliers(t *testing.T) {
	// The 3×IQR band is wide: a value that a 1.5×IQR rule would flag
	// survives cleaning.
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: 10},
		{State: "B", Year: 2020, Value: 12},
		{State: "C", Year: 2020, Value: 11},
		{State: "D", Year: 2020, Value: 9},
		{State: "E", Year: 2020, Value: 18},
	}

	out := newTestCleaner().Clean(context.Background(), data)
	assert.Len(t, out, 5)
}

func TestCleanEmptyDataset(t *testing.T) {
	out := newTestCleaner().Clean(context.Background(), nil)
	assert.True(t, out.Empty())
}

func TestCleanIsIdempotent(t *testing.T) {
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: 10},
		{State: "A", Year: 2020, Value: 10},
		{State: "B", Year: 2020, Value: math.NaN()},
		{State: "", Year: 2021, Value: 12},
		{State: "C", Year: 2020, Value: 11},
		{State: "D", Year: 2020, Value: 9},
		{State: "E", Year: 2020, Value: 5000},
	}

	cleaner := newTestCleaner()
	once := cleaner.Clean(context.Background(), data)
	twice := cleaner.Clean(context.Background(), once)
	assert.Equal(t, once, twice)
}
