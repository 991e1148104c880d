package ml

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles [0,n) with the seeded generator and carves off the
// last testFrac share as the test set. Deterministic for a fixed seed.
func TrainTestSplit(n int, testFrac float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(math.Round(float64(n) * testFrac))
	if nTest < 1 && n > 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	test = append(test, perm[:nTest]...)
	train = append(train, perm[nTest:]...)
	return train, test
}

// StratifiedSplit splits per label value so the test set keeps the class
// balance of the population. Classes too small to contribute a test row
// stay entirely in the training set.
func StratifiedSplit(labels []int64, testFrac float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int64][]int)
	var classOrder []int64
	for i, label := range labels {
		if _, ok := byClass[label]; !ok {
			classOrder = append(classOrder, label)
		}
		byClass[label] = append(byClass[label], i)
	}

	for _, label := range classOrder {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(float64(len(idx)) * testFrac))
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		if nTest < 0 {
			nTest = 0
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	return train, test
}

// Select gathers the rows of X named by idx.
func Select(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

// SelectFloats gathers the elements of y named by idx.
func SelectFloats(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

// SelectLabels gathers the elements of labels named by idx.
func SelectLabels(labels []int64, idx []int) []int64 {
	out := make([]int64, len(idx))
	for i, j := range idx {
		out[i] = labels[j]
	}
	return out
}
