package ml

import (
	"math"
	"math/rand"
)

const (
	kmeansMaxIterations = 300
	kmeansRestarts      = 10
)

// KMeansResult holds the best clustering found across restarts.
type KMeansResult struct {
	Labels    []int
	Centroids [][]float64
	Inertia   float64
}

// KMeans partitions X into k clusters with Lloyd's algorithm, k-means++
// seeding, and a fixed number of restarts. The seeded generator makes the
// result reproducible for identical input.
func KMeans(X [][]float64, k int, seed int64) KMeansResult {
	rng := rand.New(rand.NewSource(seed))

	best := KMeansResult{Inertia: math.Inf(1)}
	for restart := 0; restart < kmeansRestarts; restart++ {
		labels, centroids, inertia := kmeansOnce(X, k, rng)
		if inertia < best.Inertia {
			best = KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia}
		}
	}
	return best
}

func kmeansOnce(X [][]float64, k int, rng *rand.Rand) ([]int, [][]float64, float64) {
	n := len(X)
	centroids := seedCentroids(X, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, x := range X {
			nearest := nearestCentroid(x, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recomputeCentroids(X, labels, centroids, rng)
	}

	var inertia float64
	for i, x := range X {
		d := euclidean(x, centroids[labels[i]])
		inertia += d * d
	}
	return labels, centroids, inertia
}

// seedCentroids implements k-means++: each next centroid is sampled with
// probability proportional to its squared distance from the chosen ones.
func seedCentroids(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(X)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(X[rng.Intn(n)]))

	dist2 := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, x := range X {
			d := euclidean(x, centroids[0])
			min := d * d
			for _, c := range centroids[1:] {
				d = euclidean(x, c)
				if d*d < min {
					min = d * d
				}
			}
			dist2[i] = min
			total += min
		}

		if total == 0 {
			// all points coincide with a centroid; fall back to uniform
			centroids = append(centroids, clone(X[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		var acc float64
		chosen := n - 1
		for i, d := range dist2 {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clone(X[chosen]))
	}
	return centroids
}

func nearestCentroid(x []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := euclidean(x, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func recomputeCentroids(X [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	p := len(X[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range centroids {
		sums[c] = make([]float64, p)
	}

	for i, x := range X {
		c := labels[i]
		counts[c]++
		for j, v := range x {
			sums[c][j] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			// empty cluster: reseed from a random point
			centroids[c] = clone(X[rng.Intn(len(X))])
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
