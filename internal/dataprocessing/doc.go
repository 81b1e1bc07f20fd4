// Package dataprocessing prepares raw observation datasets for
// analysis: cleaning (deduplication, median imputation, sentinel
// categories, wide-band IQR outlier trimming), predicate filtering,
// value transforms, group aggregation, and the long-to-wide pivot that
// feeds correlation and model training.
//
// All operations return new datasets; inputs are never mutated beyond
// the cleaner's in-place imputation of its own deduplicated copy.
package dataprocessing
