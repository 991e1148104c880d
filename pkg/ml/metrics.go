package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Accuracy is the share of exact matches between predicted and true labels.
func Accuracy(yTrue, yPred []int64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// PrecisionRecallF1 computes binary classification metrics for the positive
// class. Zero-division cases (no predicted or no actual positives) yield 0
// instead of an error, so a degenerate split still produces a metrics row.
func PrecisionRecallF1(yTrue, yPred []int64) (precision, recall, f1 float64) {
	var tp, fp, fn float64
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}

	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue))
}

// R2 is the coefficient of determination. A constant true vector yields 0.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := stat.Mean(yTrue, nil)
	var ssRes, ssTot float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		ssRes += d * d
		t := yTrue[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Silhouette is the mean silhouette coefficient over all samples, computed
// with Euclidean distance. Samples alone in their cluster contribute 0.
func Silhouette(X [][]float64, labels []int) float64 {
	n := len(X)
	if n == 0 {
		return 0
	}

	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) < 2 {
		return 0
	}

	var total float64
	for i := 0; i < n; i++ {
		own := labels[i]
		if len(clusters[own]) <= 1 {
			continue
		}

		// a: mean distance to the own cluster
		var a float64
		for _, j := range clusters[own] {
			if j != i {
				a += euclidean(X[i], X[j])
			}
		}
		a /= float64(len(clusters[own]) - 1)

		// b: mean distance to the nearest other cluster
		b := math.Inf(1)
		for label, members := range clusters {
			if label == own {
				continue
			}
			var d float64
			for _, j := range members {
				d += euclidean(X[i], X[j])
			}
			d /= float64(len(members))
			if d < b {
				b = d
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n)
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
