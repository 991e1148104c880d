package model

import (
	"math"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/ml"
	"github.com/brightlake/brightlake/pkg/models"
)

const (
	valueGrowthFactor = 1.2
	valueMinTrainRows = 10
)

// PredictValue trains a gradient-boosted regressor on customers with at
// least one purchase and predicts a 12-month value for the full population.
// With fewer than 10 qualifying customers it skips training entirely and
// falls back to a flagged growth heuristic.
func PredictValue(logger *zap.Logger, features []models.ValueFeatures, seed int64) ([]models.ValuePrediction, models.ModelMetrics) {
	metrics := models.ModelMetrics{
		Model:     "value",
		Algorithm: "gradient_boosting",
		NSamples:  int64(len(features)),
		NFeatures: 3,
	}
	if len(features) == 0 {
		return nil, metrics
	}

	var trainable []int
	for i, f := range features {
		if f.Frequency > 0 {
			trainable = append(trainable, i)
		}
	}

	if len(trainable) < valueMinTrainRows {
		metrics.Note = models.NoteInsufficientData
		logger.Warn("value model falling back to growth heuristic",
			zap.Int("qualifying_rows", len(trainable)),
			zap.Int("required", valueMinTrainRows))

		predictions := make([]models.ValuePrediction, len(features))
		for i, f := range features {
			predictions[i] = valuePrediction(f, f.HistoricalValue*valueGrowthFactor)
		}
		return predictions, metrics
	}

	X := make([][]float64, len(trainable))
	y := make([]float64, len(trainable))
	for k, i := range trainable {
		f := features[i]
		X[k] = []float64{f.AvgPurchase, f.Frequency, f.CustomerAge}
		y[k] = f.HistoricalValue
	}

	trainIdx, testIdx := ml.TrainTestSplit(len(trainable), testFraction, seed)
	model := ml.FitGBT(ml.Select(X, trainIdx), ml.SelectFloats(y, trainIdx))

	if len(testIdx) > 0 {
		yTest := ml.SelectFloats(y, testIdx)
		yPred := model.Predict(ml.Select(X, testIdx))
		metrics.MSE = ml.MSE(yTest, yPred)
		metrics.RMSE = math.Sqrt(metrics.MSE)
		metrics.R2 = ml.R2(yTest, yPred)
	}

	full := make([][]float64, len(features))
	for i, f := range features {
		full[i] = []float64{f.AvgPurchase, f.Frequency, f.CustomerAge}
	}
	raw := model.Predict(full)

	predictions := make([]models.ValuePrediction, len(features))
	for i, f := range features {
		predicted := raw[i] * valueGrowthFactor
		if predicted < 0 {
			predicted = 0
		}
		predictions[i] = valuePrediction(f, predicted)
	}

	logger.Info("value model trained",
		zap.Int("customers", len(features)),
		zap.Int("train_rows", len(trainIdx)),
		zap.Int("test_rows", len(testIdx)),
		zap.Float64("rmse", metrics.RMSE),
		zap.Float64("r2", metrics.R2))
	return predictions, metrics
}

func valuePrediction(f models.ValueFeatures, predicted float64) models.ValuePrediction {
	predicted = math.Round(predicted*100) / 100
	return models.ValuePrediction{
		CustomerID:        f.CustomerID,
		AvgPurchase:       f.AvgPurchase,
		Frequency:         f.Frequency,
		CustomerAge:       f.CustomerAge,
		HistoricalValue:   f.HistoricalValue,
		PredictedValue12M: predicted,
		ValueSegment:      valueSegment(predicted),
	}
}

func valueSegment(predicted float64) string {
	switch {
	case predicted <= 100:
		return "Low"
	case predicted <= 500:
		return "Medium"
	case predicted <= 1000:
		return "High"
	default:
		return "Premium"
	}
}
