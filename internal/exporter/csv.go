package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"povdash/pkg/contracts/domain"
)

// CSVWriter writes CSV export files under a base directory.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteDataset writes the observation rows to name under the export
// directory and returns the full path.
func (w *CSVWriter) WriteDataset(name string, data domain.Dataset) (string, error) {
	headers := []string{"Country", "CountryName", "State", "Region", "AreaType", "Indicator", "Year", "Value"}
	records := make([][]string, 0, len(data))
	for _, o := range data {
		records = append(records, []string{
			o.Country, o.CountryName, o.State, o.Region, o.AreaType, o.Indicator,
			strconv.Itoa(o.Year), formatValue(o.Value),
		})
	}
	return w.write(name, headers, records)
}

// WriteSummary writes one summary statistics record per labeled group.
func (w *CSVWriter) WriteSummary(name string, labels []string, stats []domain.SummaryStats) (string, error) {
	headers := []string{"Group", "Count", "Mean", "Median", "Std", "Variance", "Min", "Max", "Q25", "Q75", "IQR", "Skewness", "Kurtosis"}
	records := make([][]string, 0, len(stats))
	for i, s := range stats {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		records = append(records, []string{
			label, strconv.Itoa(s.Count),
			formatValue(s.Mean), formatValue(s.Median), formatValue(s.Std), formatValue(s.Variance),
			formatValue(s.Min), formatValue(s.Max), formatValue(s.Q25), formatValue(s.Q75),
			formatValue(s.IQR), formatValue(s.Skewness), formatValue(s.Kurtosis),
		})
	}
	return w.write(name, headers, records)
}

// WriteCorrelation writes a correlation matrix with row and column labels.
func (w *CSVWriter) WriteCorrelation(name string, matrix domain.CorrelationMatrix) (string, error) {
	headers := append([]string{""}, matrix.Columns...)
	records := make([][]string, 0, len(matrix.Columns))
	for i, column := range matrix.Columns {
		row := make([]string, 0, len(matrix.Columns)+1)
		row = append(row, column)
		for j := range matrix.Columns {
			row = append(row, formatValue(matrix.At(i, j)))
		}
		records = append(records, row)
	}
	return w.write(name, headers, records)
}

// WriteMetrics writes a single held-out evaluation record for a trained
// model. The MAPE cell is left empty when every actual was zero.
func (w *CSVWriter) WriteMetrics(name, model string, m domain.ModelMetrics) (string, error) {
	headers := []string{"Model", "R2", "RMSE", "MAE", "MAPE"}
	mape := ""
	if m.MAPEValid {
		mape = formatValue(m.MAPE)
	}
	records := [][]string{{
		model, formatValue(m.R2), formatValue(m.RMSE), formatValue(m.MAE), mape,
	}}
	return w.write(name, headers, records)
}

// WriteForecast writes forecast points as year-value rows.
func (w *CSVWriter) WriteForecast(name string, points []domain.ForecastPoint) (string, error) {
	headers := []string{"Year", "Forecast"}
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{strconv.Itoa(p.Year), formatValue(p.Value)})
	}
	return w.write(name, headers, records)
}

func (w *CSVWriter) write(name string, headers []string, records [][]string) (string, error) {
	fullPath := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM keeps Excel from misreading the encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	w.logger.Info("csv export written",
		slog.String("path", fullPath),
		slog.Int("rows", len(records)))
	return fullPath, nil
}

// formatValue renders a float with two decimal places; missing values
// become empty cells.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
