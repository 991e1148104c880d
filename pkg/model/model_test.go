package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/brightlake/brightlake/pkg/models"
)

// rfmPopulation builds four clearly distinct customer groups so the
// desirability ranking has an unambiguous answer.
func rfmPopulation() []models.RFMFeatures {
	var out []models.RFMFeatures
	id := int64(1)
	add := func(n int, recency, frequency, monetary float64) {
		for i := 0; i < n; i++ {
			out = append(out, models.RFMFeatures{
				CustomerID: id,
				Recency:    recency + float64(i),
				Frequency:  frequency,
				Monetary:   monetary + float64(i),
			})
			id++
		}
	}
	add(10, 5, 20, 5000)    // champions: recent, frequent, big spenders
	add(10, 30, 8, 1500)    // loyal
	add(10, 120, 2, 300)    // at risk
	add(10, 9999, 0, 0)     // lost: never purchased
	return out
}

func TestSegmentAssignsNamesByDesirability(t *testing.T) {
	features := rfmPopulation()

	segments, metrics := Segment(zaptest.NewLogger(t), features, 42)
	require.Len(t, segments, len(features))

	assert.Equal(t, "segmentation", metrics.Model)
	assert.Equal(t, "kmeans", metrics.Algorithm)
	assert.Equal(t, int64(len(features)), metrics.NSamples)
	assert.Greater(t, metrics.Silhouette, 0.5)

	// each group of ten lands in one named segment
	assert.Equal(t, "Champions", segments[0].SegmentName)
	assert.Equal(t, "Loyal", segments[10].SegmentName)
	assert.Equal(t, "At Risk", segments[20].SegmentName)
	assert.Equal(t, "Lost", segments[30].SegmentName)

	for i := range features {
		assert.Equal(t, segments[i/10*10].SegmentName, segments[i].SegmentName,
			fmt.Sprintf("customer %d strayed from its group", segments[i].CustomerID))
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	features := rfmPopulation()
	a, _ := Segment(zaptest.NewLogger(t), features, 42)
	b, _ := Segment(zaptest.NewLogger(t), features, 42)
	assert.Equal(t, a, b)
}

func TestSegmentEmptyPopulation(t *testing.T) {
	segments, metrics := Segment(zaptest.NewLogger(t), nil, 42)
	assert.Nil(t, segments)
	assert.Equal(t, int64(0), metrics.NSamples)
}

func churnPopulation() []models.ChurnFeatures {
	var out []models.ChurnFeatures
	for i := 0; i < 30; i++ {
		out = append(out, models.ChurnFeatures{
			CustomerID:    int64(i + 1),
			DaysSinceLast: 5 + float64(i%10),
			Frequency:     10,
			AvgBasket:     80,
			Tenure:        400,
			IsChurned:     0,
		})
	}
	for i := 0; i < 30; i++ {
		out = append(out, models.ChurnFeatures{
			CustomerID:    int64(i + 31),
			DaysSinceLast: 200 + float64(i%10),
			Frequency:     1,
			AvgBasket:     15,
			Tenure:        100,
			IsChurned:     1,
		})
	}
	return out
}

func TestPredictChurnScoresFullPopulation(t *testing.T) {
	features := churnPopulation()

	predictions, metrics := PredictChurn(zaptest.NewLogger(t), features, 42)
	require.Len(t, predictions, len(features))

	assert.Equal(t, "churn", metrics.Model)
	assert.Equal(t, "random_forest", metrics.Algorithm)
	assert.Equal(t, int64(60), metrics.NSamples)
	// the two classes are trivially separable
	assert.Equal(t, 1.0, metrics.Accuracy)
	assert.Equal(t, 1.0, metrics.F1)

	for _, p := range predictions {
		assert.GreaterOrEqual(t, p.ChurnProbability, 0.0)
		assert.LessOrEqual(t, p.ChurnProbability, 1.0)
		if p.IsChurned == 1 {
			assert.Equal(t, "High", p.ChurnRiskLevel)
		} else {
			assert.Equal(t, "Low", p.ChurnRiskLevel)
		}
	}
}

func TestChurnRiskBuckets(t *testing.T) {
	assert.Equal(t, "High", churnRiskLevel(0.70))
	assert.Equal(t, "High", churnRiskLevel(0.95))
	assert.Equal(t, "Medium", churnRiskLevel(0.40))
	assert.Equal(t, "Medium", churnRiskLevel(0.69))
	assert.Equal(t, "Low", churnRiskLevel(0.39))
	assert.Equal(t, "Low", churnRiskLevel(0))
}

func valuePopulation(n int) []models.ValueFeatures {
	var out []models.ValueFeatures
	for i := 0; i < n; i++ {
		avg := 20 + float64(i*10)
		freq := 1 + float64(i%8)
		out = append(out, models.ValueFeatures{
			CustomerID:      int64(i + 1),
			AvgPurchase:     avg,
			Frequency:       freq,
			CustomerAge:     100 + float64(i*7),
			HistoricalValue: avg * freq,
		})
	}
	return out
}

func TestPredictValueTrainsAndBuckets(t *testing.T) {
	features := valuePopulation(40)
	// a zero-purchase customer still gets a prediction
	features = append(features, models.ValueFeatures{CustomerID: 41})

	predictions, metrics := PredictValue(zaptest.NewLogger(t), features, 42)
	require.Len(t, predictions, 41)

	assert.Equal(t, "value", metrics.Model)
	assert.Equal(t, "gradient_boosting", metrics.Algorithm)
	// sample count reports the scored population, not just the trainable rows
	assert.Equal(t, int64(41), metrics.NSamples)
	assert.Empty(t, metrics.Note)

	for _, p := range predictions {
		assert.GreaterOrEqual(t, p.PredictedValue12M, 0.0)
		assert.Equal(t, valueSegment(p.PredictedValue12M), p.ValueSegment)
	}
}

func TestPredictValueFallbackBelowTenRows(t *testing.T) {
	features := valuePopulation(9)
	features = append(features, models.ValueFeatures{CustomerID: 10})

	predictions, metrics := PredictValue(zaptest.NewLogger(t), features, 42)
	require.Len(t, predictions, 10)

	assert.Equal(t, models.NoteInsufficientData, metrics.Note)
	assert.Equal(t, int64(10), metrics.NSamples)
	assert.Equal(t, 0.0, metrics.MSE)
	assert.Equal(t, 0.0, metrics.RMSE)
	assert.Equal(t, 0.0, metrics.R2)

	// heuristic: historical value times the growth factor
	assert.InDelta(t, features[0].HistoricalValue*1.2, predictions[0].PredictedValue12M, 1e-9)
	assert.Equal(t, 0.0, predictions[9].PredictedValue12M)
	assert.Equal(t, "Low", predictions[9].ValueSegment)
}

func TestValueSegmentBoundaries(t *testing.T) {
	assert.Equal(t, "Low", valueSegment(0))
	assert.Equal(t, "Low", valueSegment(100))
	assert.Equal(t, "Medium", valueSegment(100.01))
	assert.Equal(t, "Medium", valueSegment(500))
	assert.Equal(t, "High", valueSegment(500.01))
	assert.Equal(t, "High", valueSegment(1000))
	assert.Equal(t, "Premium", valueSegment(1000.01))
}

func TestScoredOutputsAreIdempotent(t *testing.T) {
	churnA, mA := PredictChurn(zaptest.NewLogger(t), churnPopulation(), 42)
	churnB, mB := PredictChurn(zaptest.NewLogger(t), churnPopulation(), 42)
	assert.Equal(t, churnA, churnB)
	assert.Equal(t, mA, mB)

	valueA, _ := PredictValue(zaptest.NewLogger(t), valuePopulation(40), 42)
	valueB, _ := PredictValue(zaptest.NewLogger(t), valuePopulation(40), 42)
	assert.Equal(t, valueA, valueB)
}
