package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povdash/pkg/contracts/domain"
)

func TestTransform(t *testing.T) {
	data := domain.Dataset{
		{State: "A", Year: 2020, Value: 0},
		{State: "B", Year: 2020, Value: 3},
		{State: "C", Year: 2020, Value: 8},
	}

	t.Run("log uses log1p", func(t *testing.T) {
		out := Transform(data, TransformLog)
		assert.InDelta(t, 0.0, out[0].Value, 1e-9)
		assert.InDelta(t, math.Log(4), out[1].Value, 1e-9)
	})

	t.Run("sqrt", func(t *testing.T) {
		out := Transform(data, TransformSqrt)
		assert.InDelta(t, math.Sqrt(8), out[2].Value, 1e-9)
	})

	t.Run("normalize maps to unit range", func(t *testing.T) {
		out := Transform(data, TransformNormalize)
		assert.InDelta(t, 0.0, out[0].Value, 1e-9)
		assert.InDelta(t, 1.0, out[2].Value, 1e-9)
	})

	t.Run("normalize with zero range passes through", func(t *testing.T) {
		constant := domain.Dataset{{Value: 5}, {Value: 5}}
		out := Transform(constant, TransformNormalize)
		assert.InDelta(t, 5.0, out[0].Value, 1e-9)
	})

	t.Run("none is identity", func(t *testing.T) {
		out := Transform(data, TransformNone)
		assert.Equal(t, data, out)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		Transform(data, TransformNormalize)
		assert.InDelta(t, 3.0, data[1].Value, 1e-9)
	})
}

func TestAggregate(t *testing.T) {
	data := domain.Dataset{
		{State: "Bihar", Year: 2020, Value: 30},
		{State: "Bihar", Year: 2020, Value: 20},
		{State: "Bihar", Year: 2021, Value: 28},
		{State: "Kerala", Year: 2020, Value: 10},
	}

	t.Run("mean by state and year", func(t *testing.T) {
		out := Aggregate(data, []GroupColumn{GroupByState, GroupByYear}, AggMean)
		require.Len(t, out, 3)
		assert.Equal(t, "Bihar", out[0].State)
		assert.Equal(t, 2020, out[0].Year)
		assert.InDelta(t, 25.0, out[0].Value, 1e-9)
	})

	t.Run("mean by year", func(t *testing.T) {
		out := Aggregate(data, []GroupColumn{GroupByYear}, AggMean)
		require.Len(t, out, 2)
		assert.InDelta(t, 20.0, out[0].Value, 1e-9)
		assert.InDelta(t, 28.0, out[1].Value, 1e-9)
	})

	t.Run("count", func(t *testing.T) {
		out := Aggregate(data, []GroupColumn{GroupByState}, AggCount)
		require.Len(t, out, 2)
		assert.InDelta(t, 3.0, out[0].Value, 1e-9)
		assert.InDelta(t, 1.0, out[1].Value, 1e-9)
	})

	t.Run("missing values dropped before reducing", func(t *testing.T) {
		withNaN := domain.Dataset{
			{State: "A", Year: 2020, Value: 10},
			{State: "A", Year: 2020, Value: math.NaN()},
		}
		out := Aggregate(withNaN, []GroupColumn{GroupByState}, AggMean)
		require.Len(t, out, 1)
		assert.InDelta(t, 10.0, out[0].Value, 1e-9)
	})

	t.Run("absent group columns ignored", func(t *testing.T) {
		out := Aggregate(data, []GroupColumn{GroupByCountry}, AggMean)
		// No country column: the input comes back unchanged.
		assert.Len(t, out, 4)
	})
}

func TestPivotIndicators(t *testing.T) {
	data := domain.Dataset{
		{State: "Bihar", Indicator: "poverty_rate", Year: 2020, Value: 30},
		{State: "Bihar", Indicator: "literacy_rate", Year: 2020, Value: 62},
		{State: "Kerala", Indicator: "poverty_rate", Year: 2020, Value: 10},
		{State: "Kerala", Indicator: "literacy_rate", Year: 2020, Value: 94},
		{State: "Punjab", Indicator: "poverty_rate", Year: 2020, Value: 8},
	}

	table := PivotIndicators(data)
	require.Equal(t, []string{"literacy_rate", "poverty_rate"}, table.Columns)
	require.Equal(t, 3, table.Rows())

	poverty := table.Column("poverty_rate")
	assert.InDelta(t, 30.0, poverty[0], 1e-9)

	// Punjab never observed literacy: its cell is missing.
	literacy := table.Column("literacy_rate")
	assert.True(t, math.IsNaN(literacy[2]))
}

func TestPivotIndicatorsAveragesDuplicates(t *testing.T) {
	data := domain.Dataset{
		{State: "Bihar", Indicator: "poverty_rate", Year: 2020, Value: 30},
		{State: "Bihar", Indicator: "poverty_rate", Year: 2020, Value: 20},
	}
	table := PivotIndicators(data)
	assert.InDelta(t, 25.0, table.Column("poverty_rate")[0], 1e-9)
}

func TestYearValueTable(t *testing.T) {
	data := domain.Dataset{
		{Year: 2020, Value: 30},
		{Year: 2021, Value: math.NaN()},
	}
	table := YearValueTable(data)
	require.Equal(t, 2, table.Rows())
	assert.Equal(t, []float64{2020, 2021}, table.Column("year"))
	assert.True(t, math.IsNaN(table.Column("value")[1]))
}
