package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"povdash/pkg/contracts/domain"
)

func TestExcelWrite(t *testing.T) {
	dir := t.TempDir()
	writer := NewExcelWriter(dir, nil)

	wb := Workbook{
		Dataset: domain.Dataset{
			{State: "Bihar", Year: 2020, Value: 30},
			{State: "Kerala", Year: 2020, Value: 10},
		},
		Summary: domain.SummaryStats{Count: 2, Mean: 20, Median: 20, Min: 10, Max: 30},
		Forecast: []domain.ForecastPoint{
			{Year: 2025, Value: 18.5},
		},
	}

	path, err := writer.Write("report.xlsx", wb)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Data")
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Forecast")
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bihar", rows[1][2])

	forecast, err := f.GetRows("Forecast")
	require.NoError(t, err)
	require.Len(t, forecast, 2)
	assert.Equal(t, "2025", forecast[1][0])
}

func TestExcelWriteEmptyRun(t *testing.T) {
	dir := t.TempDir()
	writer := NewExcelWriter(dir, nil)

	path, err := writer.Write("empty.xlsx", Workbook{})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}
