package model

import (
	"sort"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/ml"
	"github.com/brightlake/brightlake/pkg/models"
)

const segmentClusters = 4

// segmentNames in descending desirability order: the best-ranked cluster
// becomes "Champions", the worst "Lost".
var segmentNames = [segmentClusters]string{"Champions", "Loyal", "At Risk", "Lost"}

// Segment clusters customers on standardized RFM features and names each
// cluster by its desirability rank so repeated runs assign stable names
// regardless of the arbitrary cluster indices k-means produces.
func Segment(logger *zap.Logger, features []models.RFMFeatures, seed int64) ([]models.CustomerSegment, models.ModelMetrics) {
	metrics := models.ModelMetrics{
		Model:     "segmentation",
		Algorithm: "kmeans",
		NSamples:  int64(len(features)),
		NFeatures: 3,
	}
	if len(features) == 0 {
		return nil, metrics
	}

	X := make([][]float64, len(features))
	for i, f := range features {
		X[i] = []float64{f.Recency, f.Frequency, f.Monetary}
	}

	var scaler ml.StandardScaler
	scaled := scaler.FitTransform(X)

	k := segmentClusters
	if len(features) < k {
		k = len(features)
	}
	result := ml.KMeans(scaled, k, seed)
	metrics.Silhouette = ml.Silhouette(scaled, result.Labels)

	names := rankSegments(features, result.Labels, k)

	segments := make([]models.CustomerSegment, len(features))
	for i, f := range features {
		segments[i] = models.CustomerSegment{
			CustomerID:  f.CustomerID,
			Recency:     f.Recency,
			Frequency:   f.Frequency,
			Monetary:    f.Monetary,
			SegmentID:   int64(result.Labels[i]),
			SegmentName: names[result.Labels[i]],
		}
	}

	logger.Info("segmentation model trained",
		zap.Int("customers", len(features)),
		zap.Int("clusters", k),
		zap.Float64("silhouette", metrics.Silhouette))
	return segments, metrics
}

// rankSegments orders clusters by desirability computed over the RAW feature
// means: low recency, high frequency, and high monetary are desirable.
func rankSegments(features []models.RFMFeatures, labels []int, k int) map[int]string {
	sums := make([][3]float64, k)
	counts := make([]float64, k)
	for i, f := range features {
		c := labels[i]
		sums[c][0] += f.Recency
		sums[c][1] += f.Frequency
		sums[c][2] += f.Monetary
		counts[c]++
	}

	type ranked struct {
		cluster      int
		desirability float64
	}
	order := make([]ranked, 0, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			order = append(order, ranked{cluster: c})
			continue
		}
		score := -sums[c][0]/counts[c] + 10*sums[c][1]/counts[c] + sums[c][2]/counts[c]/100
		order = append(order, ranked{cluster: c, desirability: score})
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].desirability > order[j].desirability
	})

	names := make(map[int]string, k)
	for rank, r := range order {
		names[r.cluster] = segmentNames[rank]
	}
	return names
}
