package ml

import "fmt"

// GradientBoosting is a stagewise ensemble of shallow CART regression
// trees fit on the residuals of the running prediction, shrunk by the
// learning rate. The initial prediction is the training-target mean.
type GradientBoosting struct {
	Stages       int
	LearningRate float64
	MaxDepth     int

	init      float64
	trees     []*regressionTree
	nFeatures int
}

// NewGradientBoosting creates an untrained boosting ensemble. Depth 3
// and rate 0.1 are the conventional defaults for this model family.
func NewGradientBoosting(stages int, learningRate float64, maxDepth int) *GradientBoosting {
	if stages < 1 {
		stages = 1
	}
	if learningRate <= 0 {
		learningRate = 0.1
	}
	if maxDepth < 1 {
		maxDepth = 3
	}
	return &GradientBoosting{Stages: stages, LearningRate: learningRate, MaxDepth: maxDepth}
}

// Fit trains the ensemble with squared-error loss. Training is
// deterministic: no subsampling is applied, so no seed is needed.
func (g *GradientBoosting) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("gradient boosting: %d feature rows vs %d targets", len(x), len(y))
	}
	g.nFeatures = len(x[0])
	g.trees = make([]*regressionTree, 0, g.Stages)

	n := len(x)
	samples := make([]int, n)
	for i := range samples {
		samples[i] = i
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	g.init = sum / float64(n)

	current := make([]float64, n)
	for i := range current {
		current[i] = g.init
	}

	residual := make([]float64, n)
	for stage := 0; stage < g.Stages; stage++ {
		for i := range residual {
			residual[i] = y[i] - current[i]
		}
		tree := newRegressionTree(treeConfig{maxDepth: g.MaxDepth})
		tree.fit(x, residual, samples)
		g.trees = append(g.trees, tree)

		for i, row := range x {
			current[i] += g.LearningRate * tree.predictRow(row)
		}
	}
	return nil
}

// Predict returns init + rate·Σ stage predictions for each row.
func (g *GradientBoosting) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		pred := g.init
		for _, tree := range g.trees {
			pred += g.LearningRate * tree.predictRow(row)
		}
		out[i] = pred
	}
	return out
}

// Importances returns normalized impurity-decrease importances summed
// over all boosting stages.
func (g *GradientBoosting) Importances() []float64 {
	out := make([]float64, g.nFeatures)
	for _, tree := range g.trees {
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
