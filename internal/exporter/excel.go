package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"povdash/pkg/contracts/domain"
)

// ExcelWriter writes multi-sheet analysis workbooks.
type ExcelWriter struct {
	dir    string
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer rooted at dir.
func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{dir: dir, logger: logger}
}

// Workbook collects the artifacts of one analysis run. Nil or empty
// sections are skipped; at least one sheet is always written.
type Workbook struct {
	Dataset  domain.Dataset
	Summary  domain.SummaryStats
	Matrix   domain.CorrelationMatrix
	Forecast []domain.ForecastPoint
}

// Write renders the workbook to name under the export directory and
// returns the full path.
func (w *ExcelWriter) Write(name string, wb Workbook) (string, error) {
	fullPath := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	if !wb.Dataset.Empty() {
		if err := w.datasetSheet(f, wb.Dataset); err != nil {
			return "", err
		}
		sheets++
	}
	if !wb.Summary.Empty() {
		if err := w.summarySheet(f, wb.Summary); err != nil {
			return "", err
		}
		sheets++
	}
	if !wb.Matrix.Empty() {
		if err := w.matrixSheet(f, wb.Matrix); err != nil {
			return "", err
		}
		sheets++
	}
	if len(wb.Forecast) > 0 {
		if err := w.forecastSheet(f, wb.Forecast); err != nil {
			return "", err
		}
		sheets++
	}
	if sheets == 0 {
		// Empty run still produces a readable file.
		if err := w.summarySheet(f, domain.SummaryStats{}); err != nil {
			return "", err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("excel export written",
		slog.String("path", fullPath),
		slog.Int("rows", len(wb.Dataset)))
	return fullPath, nil
}

func (w *ExcelWriter) datasetSheet(f *excelize.File, data domain.Dataset) error {
	const sheet = "Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"Country", "CountryName", "State", "Region", "AreaType", "Indicator", "Year", "Value"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, o := range data {
		row := []any{o.Country, o.CountryName, o.State, o.Region, o.AreaType, o.Indicator, o.Year, cellValue(o.Value)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) summarySheet(f *excelize.File, s domain.SummaryStats) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Statistic", "Value"},
		{"Count", s.Count},
		{"Mean", cellValue(s.Mean)},
		{"Median", cellValue(s.Median)},
		{"Std", cellValue(s.Std)},
		{"Variance", cellValue(s.Variance)},
		{"Min", cellValue(s.Min)},
		{"Max", cellValue(s.Max)},
		{"Q25", cellValue(s.Q25)},
		{"Q75", cellValue(s.Q75)},
		{"IQR", cellValue(s.IQR)},
		{"Skewness", cellValue(s.Skewness)},
		{"Kurtosis", cellValue(s.Kurtosis)},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) matrixSheet(f *excelize.File, m domain.CorrelationMatrix) error {
	const sheet = "Correlation"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := make([]any, 0, len(m.Columns)+1)
	header = append(header, "")
	for _, c := range m.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, column := range m.Columns {
		row := make([]any, 0, len(m.Columns)+1)
		row = append(row, column)
		for j := range m.Columns {
			row = append(row, cellValue(m.At(i, j)))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) forecastSheet(f *excelize.File, points []domain.ForecastPoint) error {
	const sheet = "Forecast"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Year", "Forecast"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range points {
		row := []any{p.Year, cellValue(p.Value)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// cellValue maps a missing float to an empty cell.
func cellValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
