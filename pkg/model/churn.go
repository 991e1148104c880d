package model

import (
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/ml"
	"github.com/brightlake/brightlake/pkg/models"
)

const (
	churnHighRisk   = 0.70
	churnMediumRisk = 0.40
	testFraction    = 0.2
)

// PredictChurn trains a random forest on a stratified 80/20 split, reports
// held-out metrics, then re-scores the ENTIRE population. Training rows are
// deliberately scored too: coverage of every customer matters more here than
// a leakage-free probability estimate.
func PredictChurn(logger *zap.Logger, features []models.ChurnFeatures, seed int64) ([]models.ChurnPrediction, models.ModelMetrics) {
	metrics := models.ModelMetrics{
		Model:     "churn",
		Algorithm: "random_forest",
		NSamples:  int64(len(features)),
		NFeatures: 4,
	}
	if len(features) == 0 {
		return nil, metrics
	}

	X := make([][]float64, len(features))
	y := make([]int64, len(features))
	for i, f := range features {
		X[i] = []float64{f.DaysSinceLast, f.Frequency, f.AvgBasket, f.Tenure}
		y[i] = f.IsChurned
	}

	trainIdx, testIdx := ml.StratifiedSplit(y, testFraction, seed)
	forest := ml.FitForest(ml.Select(X, trainIdx), ml.SelectLabels(y, trainIdx), seed)

	if len(testIdx) > 0 {
		yTest := ml.SelectLabels(y, testIdx)
		yPred := forest.Predict(ml.Select(X, testIdx))
		metrics.Accuracy = ml.Accuracy(yTest, yPred)
		metrics.Precision, metrics.Recall, metrics.F1 = ml.PrecisionRecallF1(yTest, yPred)
	}

	probs := forest.PredictProba(X)
	predictions := make([]models.ChurnPrediction, len(features))
	for i, f := range features {
		predictions[i] = models.ChurnPrediction{
			CustomerID:       f.CustomerID,
			DaysSinceLast:    f.DaysSinceLast,
			Frequency:        f.Frequency,
			AvgBasket:        f.AvgBasket,
			Tenure:           f.Tenure,
			IsChurned:        f.IsChurned,
			ChurnProbability: probs[i],
			ChurnRiskLevel:   churnRiskLevel(probs[i]),
		}
	}

	logger.Info("churn model trained",
		zap.Int("customers", len(features)),
		zap.Int("train_rows", len(trainIdx)),
		zap.Int("test_rows", len(testIdx)),
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("f1", metrics.F1))
	return predictions, metrics
}

func churnRiskLevel(probability float64) string {
	switch {
	case probability >= churnHighRisk:
		return "High"
	case probability >= churnMediumRisk:
		return "Medium"
	default:
		return "Low"
	}
}
