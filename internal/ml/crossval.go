package ml

import (
	"fmt"
	"math"

	"povdash/pkg/contracts/domain"
)

// CrossValidation summarizes k-fold evaluation of one model kind: the
// per-fold held-out R² scores plus their mean and standard deviation.
type CrossValidation struct {
	Kind      Kind      `json:"kind"`
	Folds     int       `json:"folds"`
	Scores    []float64 `json:"scores"`
	MeanScore float64   `json:"mean_score"`
	StdScore  float64   `json:"std_score"`
}

// CrossValidate scores the chosen regressor with k-fold cross-validation
// over consecutive folds. Rows with a missing value across the selected
// columns are dropped first. Fewer usable rows than folds yields a zero
// result with no scores and no error; an empty table after the drop
// yields ErrEmptyInput.
func CrossValidate(table *domain.Table, target string, features []string, kind Kind, folds int, opts Options) (CrossValidation, error) {
	result := CrossValidation{Kind: kind, Folds: folds, Scores: []float64{}}
	if folds < 2 {
		return result, fmt.Errorf("cross-validation needs at least 2 folds, got %d", folds)
	}
	if len(features) == 0 {
		return result, ErrEmptyInput
	}

	x, y := table.DropMissing(features, target)
	if len(x) == 0 {
		return result, ErrEmptyInput
	}
	if len(x) < folds {
		return result, nil
	}

	n := len(x)
	base, extra := n/folds, n%folds
	start := 0
	for f := 0; f < folds; f++ {
		size := base
		if f < extra {
			size++
		}
		end := start + size

		var trainX, testX [][]float64
		var trainY, testY []float64
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		model := newRegressor(kind, opts)
		if err := model.Fit(trainX, trainY); err != nil {
			return result, fmt.Errorf("fit %s fold %d: %w", kind, f, err)
		}
		result.Scores = append(result.Scores, Evaluate(testY, model.Predict(testX)).R2)
		start = end
	}

	var sum float64
	for _, s := range result.Scores {
		sum += s
	}
	result.MeanScore = sum / float64(len(result.Scores))

	var sq float64
	for _, s := range result.Scores {
		sq += (s - result.MeanScore) * (s - result.MeanScore)
	}
	result.StdScore = math.Sqrt(sq / float64(len(result.Scores)))
	return result, nil
}
