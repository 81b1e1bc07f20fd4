package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"povdash/pkg/contracts/domain"
)

// ErrEmptyInput marks training skipped because no usable rows remained
// after dropping missing values.
var ErrEmptyInput = errors.New("ml: empty input")

// Kind identifies a regressor family. The set is closed: handlers map
// each kind to a typed constructor, so an unknown kind is rejected at
// parse time rather than failing at lookup time.
type Kind string

const (
	KindLinear           Kind = "linear"
	KindRandomForest     Kind = "random-forest"
	KindGradientBoosting Kind = "gradient-boosting"
	KindEnsemble         Kind = "ensemble"
)

// ParseKind validates a model kind identifier from an external caller.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLinear, KindRandomForest, KindGradientBoosting, KindEnsemble:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown model kind %q", s)
}

// Regressor is the common surface of all trainable models.
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) []float64
}

// Options control training. The fixed seed makes the train/test split
// and the forest bootstraps reproducible across runs.
type Options struct {
	TestFraction float64
	Seed         int64
	Estimators   int
	LearningRate float64
	MaxDepth     int
}

// DefaultOptions mirrors the conventional sklearn-style defaults the
// rest of the pipeline is calibrated against.
func DefaultOptions() Options {
	return Options{
		TestFraction: 0.2,
		Seed:         42,
		Estimators:   100,
		LearningRate: 0.1,
		MaxDepth:     3,
	}
}

// TrainResult bundles the fitted model with its held-out evaluation.
// The model is retained only long enough for the caller to produce
// forecasts; nothing is persisted across requests.
type TrainResult struct {
	Model       Regressor
	Kind        Kind
	Metrics     domain.ModelMetrics
	Predictions []domain.PredictionPair
}

// Train fits the chosen regressor on the table. Rows with a missing
// value across the selected columns are dropped; if nothing remains the
// result carries a nil model, zero metrics, and empty predictions
// together with ErrEmptyInput, never a raised failure. Otherwise the
// data is split train/test at the configured fraction and seed, the
// model is fit on the training split, and metrics are computed on the
// held-out split.
func Train(table *domain.Table, target string, features []string, kind Kind, opts Options) (*TrainResult, error) {
	empty := &TrainResult{Kind: kind, Predictions: []domain.PredictionPair{}}
	if len(features) == 0 {
		return empty, ErrEmptyInput
	}

	x, y := table.DropMissing(features, target)
	if len(x) == 0 {
		return empty, ErrEmptyInput
	}

	trainX, trainY, testX, testY := split(x, y, opts.TestFraction, opts.Seed)
	if len(trainX) == 0 {
		return empty, ErrEmptyInput
	}

	model := newRegressor(kind, opts)
	if err := model.Fit(trainX, trainY); err != nil {
		return empty, fmt.Errorf("fit %s model: %w", kind, err)
	}

	result := &TrainResult{Model: model, Kind: kind, Predictions: []domain.PredictionPair{}}
	if len(testX) > 0 {
		preds := model.Predict(testX)
		result.Metrics = Evaluate(testY, preds)
		for i, actual := range testY {
			result.Predictions = append(result.Predictions, domain.PredictionPair{
				Actual:    actual,
				Predicted: preds[i],
			})
		}
	}
	return result, nil
}

func newRegressor(kind Kind, opts Options) Regressor {
	switch kind {
	case KindRandomForest:
		// Depth is unbounded for the forest, per the family's defaults.
		return NewRandomForest(opts.Estimators, 0, opts.Seed)
	case KindGradientBoosting:
		return NewGradientBoosting(opts.Estimators, opts.LearningRate, opts.MaxDepth)
	case KindEnsemble:
		// Mean blend of the three base families.
		return NewEnsemble(
			NewLinearModel(),
			NewRandomForest(opts.Estimators, 0, opts.Seed),
			NewGradientBoosting(opts.Estimators, opts.LearningRate, opts.MaxDepth),
		)
	default:
		return NewLinearModel()
	}
}

// split shuffles row indices with the fixed seed and carves off the
// test fraction (rounded up). Datasets too small to hold out a test
// row train on everything and evaluate as empty.
func split(x [][]float64, y []float64, fraction float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	n := len(x)
	testN := int(math.Ceil(float64(n) * fraction))
	if testN >= n {
		testN = n - 1
	}
	if testN < 0 {
		testN = 0
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	for i, idx := range perm {
		if i < testN {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		} else {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		}
	}
	return trainX, trainY, testX, testY
}

// Evaluate computes held-out metrics. MAPE divides by actual values and
// is undefined for zero actuals; zero-actual terms are excluded and
// MAPEValid reports whether any term survived. This is a documented
// limitation of the metric, not a silent mask.
func Evaluate(actual, predicted []float64) domain.ModelMetrics {
	if len(actual) == 0 {
		return domain.ModelMetrics{}
	}

	var ssRes, ssTot, absSum float64
	var mapeSum float64
	var mapeN int
	mean := 0.0
	for _, a := range actual {
		mean += a
	}
	mean /= float64(len(actual))

	for i, a := range actual {
		d := a - predicted[i]
		ssRes += d * d
		ssTot += (a - mean) * (a - mean)
		absSum += math.Abs(d)
		if a != 0 {
			mapeSum += math.Abs(d / a)
			mapeN++
		}
	}

	r2 := 0.0
	switch {
	case ssTot > 0:
		r2 = 1 - ssRes/ssTot
	case ssRes == 0:
		r2 = 1
	}

	m := domain.ModelMetrics{
		R2:   r2,
		RMSE: math.Sqrt(ssRes / float64(len(actual))),
		MAE:  absSum / float64(len(actual)),
	}
	if mapeN > 0 {
		m.MAPE = mapeSum / float64(mapeN) * 100
		m.MAPEValid = true
	}
	return m
}

// Forecast extrapolates a fitted single-feature (year) model N years
// past the last observed year, returning one point forecast per future
// year in order. A nil model, empty history, or non-positive horizon
// yields nil. No uncertainty bounds are produced, and accuracy degrades
// with distance from the training range.
func Forecast(model Regressor, history domain.Dataset, yearsAhead int) []domain.ForecastPoint {
	if model == nil || history.Empty() || yearsAhead < 1 {
		return nil
	}

	lastYear := history.MaxYear()
	rows := make([][]float64, yearsAhead)
	for i := 0; i < yearsAhead; i++ {
		rows[i] = []float64{float64(lastYear + 1 + i)}
	}

	preds := model.Predict(rows)
	out := make([]domain.ForecastPoint, yearsAhead)
	for i, p := range preds {
		out[i] = domain.ForecastPoint{Year: lastYear + 1 + i, Value: p}
	}
	return out
}

// Importances extracts feature importances from tree-ensemble models,
// sorted descending. Models without importances yield nil.
func Importances(model Regressor, features []string) []domain.FeatureImportance {
	type importer interface{ Importances() []float64 }
	imp, ok := model.(importer)
	if !ok {
		return nil
	}
	values := imp.Importances()
	if len(values) != len(features) {
		return nil
	}
	out := make([]domain.FeatureImportance, len(features))
	for i, f := range features {
		out[i] = domain.FeatureImportance{Feature: f, Importance: values[i]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}
