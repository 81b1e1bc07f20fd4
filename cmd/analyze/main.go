// Command analyze runs the analysis pipeline once from the command
// line: load, clean, filter, summarize, optionally train and forecast,
// and export the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"povdash/internal/cache"
	"povdash/internal/config"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/exporter"
	"povdash/internal/ml"
	"povdash/internal/services"
	"povdash/internal/stats"
	"povdash/pkg/contracts/domain"
)

func main() {
	var (
		source     = flag.String("source", string(datasource.KindIndiaPoverty), "data source kind (world-bank-poverty, india-poverty, india-multi-indicator)")
		indicator  = flag.String("indicator", "", "indicator name for sources that take one")
		startYear  = flag.Int("start-year", 0, "first year (0 = configured default)")
		endYear    = flag.Int("end-year", 0, "last year (0 = configured default)")
		states     = flag.String("states", "", "comma-separated state filter")
		countries  = flag.String("countries", "", "comma-separated country filter")
		areaType   = flag.String("area-type", "", "area type filter (Rural, Urban, Total)")
		model      = flag.String("model", "", "train this model on the year trend (linear, random-forest, gradient-boosting, ensemble)")
		forecast   = flag.Int("forecast", 0, "forecast this many years past the data (requires -model)")
		correlate  = flag.Bool("correlation", false, "print the indicator correlation matrix")
		exportCSV  = flag.String("export-csv", "", "write the prepared dataset to this CSV file")
		exportXLSX = flag.String("export-xlsx", "", "write the analysis workbook to this Excel file")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if err := run(context.Background(), cfg, logger, options{
		source:     *source,
		indicator:  *indicator,
		startYear:  *startYear,
		endYear:    *endYear,
		states:     splitList(*states),
		countries:  splitList(*countries),
		areaType:   *areaType,
		model:      *model,
		forecast:   *forecast,
		correlate:  *correlate,
		exportCSV:  *exportCSV,
		exportXLSX: *exportXLSX,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	source     string
	indicator  string
	startYear  int
	endYear    int
	states     []string
	countries  []string
	areaType   string
	model      string
	forecast   int
	correlate  bool
	exportCSV  string
	exportXLSX string
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts options) error {
	kind, err := datasource.ParseKind(opts.source)
	if err != nil {
		return err
	}

	loader := datasource.NewLoader(logger, datasource.LoaderConfig{
		StartYear: cfg.Data.StartYear,
		EndYear:   cfg.Data.EndYear,
		Seed:      cfg.Data.Seed,
	})
	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig())
	resultCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	defer resultCache.Stop()

	dataService := services.NewDataService(loader, cleaner, resultCache, nil, logger)
	analysisService := services.NewAnalysisService(dataService, resultCache, nil, logger)
	modelService := services.NewModelService(dataService, resultCache, nil, logger, cfg.ML)

	req := datasource.Request{
		Kind:      kind,
		Indicator: opts.indicator,
		StartYear: opts.startYear,
		EndYear:   opts.endYear,
		States:    opts.states,
		Countries: opts.countries,
		AreaType:  opts.areaType,
	}
	spec := domain.FilterSpec{}

	data, err := dataService.Prepared(ctx, req, spec)
	if err != nil {
		return err
	}
	fmt.Printf("Dataset: %d rows\n", len(data))

	summary, err := analysisService.Summary(ctx, req, spec)
	if err != nil {
		return err
	}
	printSummary(summary)

	if opts.correlate {
		matrix, err := analysisService.Correlation(ctx, req, spec, stats.Pearson)
		if err != nil {
			return err
		}
		printMatrix(matrix)
	}

	var (
		forecastPoints []domain.ForecastPoint
		trained        *services.TrainReport
	)
	if opts.model != "" {
		modelKind, err := ml.ParseKind(opts.model)
		if err != nil {
			return err
		}
		if opts.forecast > 0 {
			report, err := modelService.ForecastTrend(ctx, req, spec, modelKind, opts.forecast)
			if err != nil {
				return err
			}
			printMetrics(report.Kind, report.Metrics)
			trained = &report.TrainReport
			forecastPoints = report.Forecast
			for _, p := range forecastPoints {
				fmt.Printf("  %d: %.2f\n", p.Year, p.Value)
			}
		} else {
			report, err := modelService.TrainTrend(ctx, req, spec, modelKind)
			if err != nil {
				return err
			}
			printMetrics(report.Kind, report.Metrics)
			trained = &report
		}
	}

	if opts.exportCSV != "" {
		writer := exporter.NewCSVWriter(cfg.Export.Dir, logger)
		path, err := writer.WriteDataset(opts.exportCSV, data)
		if err != nil {
			return err
		}
		fmt.Printf("CSV written: %s\n", path)

		if trained != nil {
			metricsPath, err := writer.WriteMetrics(metricsFileName(opts.exportCSV), string(trained.Kind), trained.Metrics)
			if err != nil {
				return err
			}
			fmt.Printf("Metrics written: %s\n", metricsPath)
		}
	}
	if opts.exportXLSX != "" {
		writer := exporter.NewExcelWriter(cfg.Export.Dir, logger)
		path, err := writer.Write(opts.exportXLSX, exporter.Workbook{
			Dataset:  data,
			Summary:  summary,
			Forecast: forecastPoints,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Workbook written: %s\n", path)
	}
	return nil
}

func printSummary(s domain.SummaryStats) {
	if s.Empty() {
		fmt.Println("Summary: no data")
		return
	}
	fmt.Printf("Summary: n=%d mean=%.2f median=%.2f std=%.2f min=%.2f max=%.2f\n",
		s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max)
}

func printMatrix(m domain.CorrelationMatrix) {
	if m.Empty() {
		fmt.Println("Correlation: no numeric columns")
		return
	}
	fmt.Println("Correlation:")
	for i, column := range m.Columns {
		fmt.Printf("  %-30s", column)
		for j := range m.Columns {
			fmt.Printf(" %6.3f", m.At(i, j))
		}
		fmt.Println()
	}
}

func printMetrics(kind ml.Kind, m domain.ModelMetrics) {
	fmt.Printf("Model %s: r2=%.4f rmse=%.4f mae=%.4f", kind, m.R2, m.RMSE, m.MAE)
	if m.MAPEValid {
		fmt.Printf(" mape=%.2f%%", m.MAPE)
	}
	fmt.Println()
}

// metricsFileName derives the metrics file from the dataset export name,
// e.g. panel.csv -> panel-metrics.csv.
func metricsFileName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-metrics" + ext
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
