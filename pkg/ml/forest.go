package ml

import (
	"math"
	"math/rand"
	"sort"
)

const (
	forestTrees        = 100
	forestMaxDepth     = 12
	forestMinLeafSize  = 2
	forestMinSplitSize = 4
)

// RandomForest is a bagged ensemble of CART classification trees for binary
// labels. Probabilities are the averaged positive-class fractions of the
// leaves each sample lands in.
type RandomForest struct {
	trees []*classNode
}

type classNode struct {
	feature   int
	threshold float64
	left      *classNode
	right     *classNode
	prob      float64 // positive-class share at a leaf
	leaf      bool
}

// FitForest trains a random forest on X with binary labels y. Each tree sees
// a bootstrap sample and considers sqrt(p) features per split. The seeded
// generator makes training deterministic.
func FitForest(X [][]float64, y []int64, seed int64) *RandomForest {
	rng := rand.New(rand.NewSource(seed))
	n := len(X)
	p := len(X[0])
	mtry := int(math.Sqrt(float64(p)))
	if mtry < 1 {
		mtry = 1
	}

	forest := &RandomForest{trees: make([]*classNode, forestTrees)}
	for t := 0; t < forestTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		forest.trees[t] = growClassTree(X, y, sample, mtry, 0, rng)
	}
	return forest
}

// PredictProba returns the positive-class probability for each row of X.
func (f *RandomForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		var sum float64
		for _, tree := range f.trees {
			sum += tree.predict(x)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

// Predict returns hard labels at the 0.5 threshold.
func (f *RandomForest) Predict(X [][]float64) []int64 {
	probs := f.PredictProba(X)
	out := make([]int64, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (n *classNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func growClassTree(X [][]float64, y []int64, idx []int, mtry, depth int, rng *rand.Rand) *classNode {
	var positives float64
	for _, i := range idx {
		if y[i] == 1 {
			positives++
		}
	}
	prob := positives / float64(len(idx))

	if depth >= forestMaxDepth || len(idx) < forestMinSplitSize || prob == 0 || prob == 1 {
		return &classNode{leaf: true, prob: prob}
	}

	feature, threshold, ok := bestGiniSplit(X, y, idx, mtry, rng)
	if !ok {
		return &classNode{leaf: true, prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < forestMinLeafSize || len(right) < forestMinLeafSize {
		return &classNode{leaf: true, prob: prob}
	}

	return &classNode{
		feature:   feature,
		threshold: threshold,
		left:      growClassTree(X, y, left, mtry, depth+1, rng),
		right:     growClassTree(X, y, right, mtry, depth+1, rng),
	}
}

// bestGiniSplit scans mtry random features for the threshold with the lowest
// weighted Gini impurity. Candidate thresholds are midpoints between
// consecutive distinct sorted values.
func bestGiniSplit(X [][]float64, y []int64, idx []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	p := len(X[0])
	features := rng.Perm(p)[:mtry]

	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, len(idx))
	order := make([]int, len(idx))
	for _, feature := range features {
		for k, i := range idx {
			values[k] = X[i][feature]
			order[k] = i
		}
		sort.Sort(&byValue{values: values, order: order})

		var totalPos float64
		for _, i := range idx {
			if y[i] == 1 {
				totalPos++
			}
		}

		var leftPos, leftCount float64
		total := float64(len(idx))
		for k := 0; k < len(idx)-1; k++ {
			if y[order[k]] == 1 {
				leftPos++
			}
			leftCount++
			if values[k] == values[k+1] {
				continue
			}

			rightPos := totalPos - leftPos
			rightCount := total - leftCount
			score := leftCount*gini(leftPos, leftCount) + rightCount*gini(rightPos, rightCount)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (values[k] + values[k+1]) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(pos, count float64) float64 {
	if count == 0 {
		return 0
	}
	p := pos / count
	return 2 * p * (1 - p)
}

type byValue struct {
	values []float64
	order  []int
}

func (s *byValue) Len() int           { return len(s.values) }
func (s *byValue) Less(i, j int) bool { return s.values[i] < s.values[j] }
func (s *byValue) Swap(i, j int) {
	s.values[i], s.values[j] = s.values[j], s.values[i]
	s.order[i], s.order[j] = s.order[j], s.order[i]
}
