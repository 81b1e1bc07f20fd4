package ml

import "sort"

// treeConfig bounds the growth of a single regression tree.
type treeConfig struct {
	maxDepth        int // 0 means unbounded
	minSamplesSplit int
	minSamplesLeaf  int
}

// treeNode is one node of a CART regression tree. Leaves have nil
// children and carry the mean target of their samples.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
}

func (n *treeNode) leaf() bool { return n.left == nil }

// regressionTree is a CART regression tree split on variance reduction.
type regressionTree struct {
	cfg         treeConfig
	root        *treeNode
	nFeatures   int
	importances []float64
}

func newRegressionTree(cfg treeConfig) *regressionTree {
	if cfg.minSamplesSplit < 2 {
		cfg.minSamplesSplit = 2
	}
	if cfg.minSamplesLeaf < 1 {
		cfg.minSamplesLeaf = 1
	}
	return &regressionTree{cfg: cfg}
}

// fit grows the tree over the sample index subset of (x, y). The index
// form lets the forest pass bootstrap samples without copying rows.
func (t *regressionTree) fit(x [][]float64, y []float64, samples []int) {
	t.nFeatures = len(x[0])
	t.importances = make([]float64, t.nFeatures)
	t.root = t.grow(x, y, samples, 0, len(samples))
}

func (t *regressionTree) grow(x [][]float64, y []float64, samples []int, depth, total int) *treeNode {
	mean, sse := meanSSE(y, samples)
	node := &treeNode{value: mean}

	if len(samples) < t.cfg.minSamplesSplit || sse == 0 {
		return node
	}
	if t.cfg.maxDepth > 0 && depth >= t.cfg.maxDepth {
		return node
	}

	feature, threshold, gain, ok := t.bestSplit(x, y, samples, sse)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range samples {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.cfg.minSamplesLeaf || len(right) < t.cfg.minSamplesLeaf {
		return node
	}

	// Importance is the impurity decrease weighted by node share.
	t.importances[feature] += gain * float64(len(samples)) / float64(total)

	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(x, y, left, depth+1, total)
	node.right = t.grow(x, y, right, depth+1, total)
	return node
}

// bestSplit scans every feature for the split that most reduces the sum
// of squared errors, testing midpoints between distinct adjacent values.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, samples []int, parentSSE float64) (feature int, threshold, gain float64, ok bool) {
	order := make([]int, len(samples))

	for f := 0; f < t.nFeatures; f++ {
		copy(order, samples)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		// Running sums from the left side of each candidate split.
		var sumL, sqL float64
		var sumR, sqR float64
		for _, i := range order {
			sumR += y[i]
			sqR += y[i] * y[i]
		}

		n := len(order)
		for i := 0; i < n-1; i++ {
			v := y[order[i]]
			sumL += v
			sqL += v * v
			sumR -= v
			sqR -= v * v

			if x[order[i]][f] == x[order[i+1]][f] {
				continue
			}
			nl, nr := float64(i+1), float64(n-i-1)
			sseL := sqL - sumL*sumL/nl
			sseR := sqR - sumR*sumR/nr
			g := parentSSE - sseL - sseR
			if g > gain {
				gain = g
				feature = f
				threshold = (x[order[i]][f] + x[order[i+1]][f]) / 2
				ok = true
			}
		}
	}
	return feature, threshold, gain, ok
}

// predictRow walks the tree for a single feature row.
func (t *regressionTree) predictRow(row []float64) float64 {
	node := t.root
	for !node.leaf() {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// meanSSE returns the mean and sum of squared errors of the target over
// the sample subset.
func meanSSE(y []float64, samples []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range samples {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(samples))
	if n == 0 {
		return 0, 0
	}
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // guard against negative rounding residue
	}
	return mean, sse
}
