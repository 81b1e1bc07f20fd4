// Package stats implements the descriptive and inferential statistics
// layer of the poverty analysis pipeline: summary records, pairwise
// correlation matrices (Pearson, Spearman, Kendall), ordinary least
// squares regression, two-sample t-tests, one-way ANOVA, confidence
// intervals, and series utilities (z-scores, outlier masks, growth
// rates, moving averages).
//
// Every function is a pure computation over its inputs. Missing values
// are represented as NaN and dropped before computing; results are
// NaN-free. Functions distinguish "nothing to compute" (ErrEmptyInput)
// from numeric failure (ErrComputation, ErrNotComputable) so callers
// can branch deliberately instead of swallowing faults.
package stats
