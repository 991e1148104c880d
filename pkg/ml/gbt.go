package ml

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	gbtRounds       = 100
	gbtLearningRate = 0.1
	gbtMaxDepth     = 5
	gbtMinLeafSize  = 2
	gbtMinSplitSize = 4
)

// GradientBoosting is a boosted ensemble of shallow regression trees fit on
// squared-error residuals.
type GradientBoosting struct {
	base  float64
	trees []*regNode
}

type regNode struct {
	feature   int
	threshold float64
	left      *regNode
	right     *regNode
	value     float64
	leaf      bool
}

// FitGBT trains a gradient boosting regressor. Each round fits a depth-bound
// regression tree to the current residuals and adds a damped copy of its
// predictions to the ensemble.
func FitGBT(X [][]float64, y []float64) *GradientBoosting {
	model := &GradientBoosting{base: stat.Mean(y, nil)}

	residuals := make([]float64, len(y))
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = model.base
	}

	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}

	for round := 0; round < gbtRounds; round++ {
		for i := range y {
			residuals[i] = y[i] - pred[i]
		}
		tree := growRegTree(X, residuals, idx, 0)
		model.trees = append(model.trees, tree)
		for i, x := range X {
			pred[i] += gbtLearningRate * tree.predict(x)
		}
	}
	return model
}

// Predict returns the ensemble prediction for each row of X.
func (g *GradientBoosting) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		v := g.base
		for _, tree := range g.trees {
			v += gbtLearningRate * tree.predict(x)
		}
		out[i] = v
	}
	return out
}

func (n *regNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func growRegTree(X [][]float64, y []float64, idx []int, depth int) *regNode {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))

	if depth >= gbtMaxDepth || len(idx) < gbtMinSplitSize {
		return &regNode{leaf: true, value: mean}
	}

	feature, threshold, ok := bestVarianceSplit(X, y, idx)
	if !ok {
		return &regNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < gbtMinLeafSize || len(right) < gbtMinLeafSize {
		return &regNode{leaf: true, value: mean}
	}

	return &regNode{
		feature:   feature,
		threshold: threshold,
		left:      growRegTree(X, y, left, depth+1),
		right:     growRegTree(X, y, right, depth+1),
	}
}

// bestVarianceSplit scans every feature for the threshold minimizing the
// summed squared error of the two children, using running sums over the
// sorted column.
func bestVarianceSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	p := len(X[0])
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, len(idx))
	order := make([]int, len(idx))
	for feature := 0; feature < p; feature++ {
		for k, i := range idx {
			values[k] = X[i][feature]
			order[k] = i
		}
		sort.Sort(&byValue{values: values, order: order})

		var totalSum, totalSq float64
		for _, i := range idx {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq, leftCount float64
		total := float64(len(idx))
		for k := 0; k < len(idx)-1; k++ {
			v := y[order[k]]
			leftSum += v
			leftSq += v * v
			leftCount++
			if values[k] == values[k+1] {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			rightCount := total - leftCount

			score := (leftSq - leftSum*leftSum/leftCount) +
				(rightSq - rightSum*rightSum/rightCount)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (values[k] + values[k+1]) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}
