package ml

import (
	"fmt"
	"math/rand"
)

// RandomForest is a bagged ensemble of CART regression trees. Each tree
// is grown on a bootstrap sample of the training rows; predictions are
// the ensemble mean. The full feature set is considered at every split,
// the usual default for regression forests.
type RandomForest struct {
	Trees    int
	MaxDepth int
	Seed     int64

	trees     []*regressionTree
	nFeatures int
}

// NewRandomForest creates an untrained forest with the given ensemble
// size and depth bound (0 for unbounded depth).
func NewRandomForest(trees, maxDepth int, seed int64) *RandomForest {
	if trees < 1 {
		trees = 1
	}
	return &RandomForest{Trees: trees, MaxDepth: maxDepth, Seed: seed}
}

// Fit trains the ensemble. The seed fixes the bootstrap draws so that
// repeated training on the same data reproduces the same model.
func (f *RandomForest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("random forest: %d feature rows vs %d targets", len(x), len(y))
	}
	f.nFeatures = len(x[0])
	f.trees = make([]*regressionTree, f.Trees)

	rng := rand.New(rand.NewSource(f.Seed))
	n := len(x)
	for i := range f.trees {
		samples := make([]int, n)
		for j := range samples {
			samples[j] = rng.Intn(n)
		}
		tree := newRegressionTree(treeConfig{maxDepth: f.MaxDepth})
		tree.fit(x, y, samples)
		f.trees[i] = tree
	}
	return nil
}

// Predict returns the ensemble-mean prediction for each row.
func (f *RandomForest) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(f.trees) == 0 {
		return out
	}
	for i, row := range x {
		var sum float64
		for _, tree := range f.trees {
			sum += tree.predictRow(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

// Importances returns per-feature impurity-decrease importances,
// averaged over trees and normalized to sum to 1. A forest trained on
// constant data has no splits and reports all zeros.
func (f *RandomForest) Importances() []float64 {
	out := make([]float64, f.nFeatures)
	for _, tree := range f.trees {
		for j, v := range tree.importances {
			out[j] += v
		}
	}
	var total float64
	for _, v := range out {
		total += v
	}
	if total == 0 {
		return out
	}
	for j := range out {
		out[j] /= total
	}
	return out
}
