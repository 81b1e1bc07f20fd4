// Package exporter writes analysis artifacts to disk.
//
// CSVWriter produces UTF-8 BOM-prefixed CSV files (the BOM keeps Excel
// from misreading the encoding) for datasets, summary statistics,
// correlation matrices, and forecasts. ExcelWriter produces a single
// multi-sheet workbook bundling the same artifacts for report handoff.
// Missing values are written as empty cells in both formats.
package exporter
