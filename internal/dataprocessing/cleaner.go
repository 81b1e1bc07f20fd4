package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"povdash/internal/stats"
	"povdash/pkg/contracts/domain"
)

// Cleaner standardizes raw observation datasets: exact duplicates are
// removed, missing numeric values are median-imputed, missing categories
// get a sentinel, and extreme value outliers are trimmed.
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// CleanerConfig holds the cleaning policy constants.
type CleanerConfig struct {
	// OutlierMultiplier widens the IQR band used for trimming. The
	// default of 3 is a deliberately wide band that only removes
	// extreme outliers.
	OutlierMultiplier float64
	// MissingCategory is the sentinel imputed into empty category cells.
	MissingCategory string
}

// DefaultCleanerConfig returns the standard cleaning policy.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		OutlierMultiplier: 3,
		MissingCategory:   "Unknown",
	}
}

// NewCleaner creates a cleaner with the given configuration, filling
// zero-valued policy fields with defaults.
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.OutlierMultiplier <= 0 {
		config.OutlierMultiplier = 3
	}
	if config.MissingCategory == "" {
		config.MissingCategory = "Unknown"
	}
	return &Cleaner{logger: logger, config: config}
}

// Clean returns the cleaned copy of the dataset. The pipeline order
// matters: duplicates go first, the imputation median is computed after
// deduplication but before outlier removal, and the outlier band is
// computed on the imputed value column. An empty dataset is returned
// unchanged. Cleaning is idempotent once stable: a second pass removes
// no further rows.
func (c *Cleaner) Clean(ctx context.Context, d domain.Dataset) domain.Dataset {
	if d.Empty() {
		return d
	}

	cleaned := deduplicate(d)
	removedDupes := len(d) - len(cleaned)

	imputeValues(cleaned)
	c.imputeCategories(cleaned)

	trimmed := c.trimOutliers(cleaned)
	removedOutliers := len(cleaned) - len(trimmed)

	c.logger.DebugContext(ctx, "cleaned dataset",
		slog.Int("rows_in", len(d)),
		slog.Int("rows_out", len(trimmed)),
		slog.Int("duplicates_removed", removedDupes),
		slog.Int("outliers_removed", removedOutliers))

	return trimmed
}

// deduplicate drops exact duplicate rows, keeping first occurrences in
// order.
func deduplicate(d domain.Dataset) domain.Dataset {
	seen := make(map[string]struct{}, len(d))
	out := make(domain.Dataset, 0, len(d))
	for _, o := range d {
		key := o.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, o)
	}
	return out
}

// imputeValues fills missing values with the column median. When every
// value is missing there is no median and the column is left as-is.
func imputeValues(d domain.Dataset) {
	present := make([]float64, 0, len(d))
	for _, o := range d {
		if o.HasValue() {
			present = append(present, o.Value)
		}
	}
	if len(present) == 0 {
		return
	}
	median := stats.Summarize(present).Median
	for i := range d {
		if !d[i].HasValue() {
			d[i].Value = median
		}
	}
}

// imputeCategories fills empty cells of each category column that is
// present in the schema with the missing-category sentinel. Columns
// absent from the schema entirely stay empty.
func (c *Cleaner) imputeCategories(d domain.Dataset) {
	sentinel := c.config.MissingCategory
	if d.HasStates() {
		for i := range d {
			if d[i].State == "" {
				d[i].State = sentinel
			}
		}
	}
	if d.HasCountries() {
		for i := range d {
			if d[i].Country == "" {
				d[i].Country = sentinel
			}
		}
	}
	if d.HasIndicators() {
		for i := range d {
			if d[i].Indicator == "" {
				d[i].Indicator = sentinel
			}
		}
	}
	if d.HasAreaTypes() {
		for i := range d {
			if d[i].AreaType == "" {
				d[i].AreaType = sentinel
			}
		}
	}
}

// trimOutliers removes rows whose value falls outside the configured
// IQR band around the imputed value column. Rows still missing a value
// (all-NaN column) are kept.
func (c *Cleaner) trimOutliers(d domain.Dataset) domain.Dataset {
	lower, upper, ok := stats.IQRBounds(d.Values(), c.config.OutlierMultiplier)
	if !ok {
		return d
	}
	out := make(domain.Dataset, 0, len(d))
	for _, o := range d {
		if math.IsNaN(o.Value) || (o.Value >= lower && o.Value <= upper) {
			out = append(out, o)
		}
	}
	return out
}
