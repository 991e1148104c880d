package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/feature"
	"github.com/brightlake/brightlake/pkg/model"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
)

// BuildAndScore derives the feature tables from the cleaned snapshots, trains
// the three models, and writes the scored tables plus the model-quality table
// to the derived layer. The metrics table always carries exactly one row per
// model, degenerate runs included.
func (c *Context) BuildAndScore(ctx context.Context, _ struct{}) (*types.ScoreOutput, error) {
	customers, purchases, err := c.cleanedTables(ctx)
	if err != nil {
		return nil, err
	}

	referenceDate := feature.ReferenceDate(purchases)
	seed := c.Cfg.ModelSeed

	rfm := feature.RFM(customers, purchases, referenceDate)
	churnFeatures := feature.Churn(customers, purchases, referenceDate, c.Cfg.ChurnThresholdDays)
	valueFeatures := feature.Value(customers, purchases, referenceDate)

	segments, segmentMetrics := model.Segment(c.Logger, rfm, seed)
	churn, churnMetrics := model.PredictChurn(c.Logger, churnFeatures, seed)
	value, valueMetrics := model.PredictValue(c.Logger, valueFeatures, seed)
	metricsTable := []models.ModelMetrics{segmentMetrics, churnMetrics, valueMetrics}

	derived := c.Cfg.Buckets.Derived
	if err := putOCF(ctx, c.Store, derived, models.ObjectCustomerSegments, models.CustomerSegmentCodec, segments); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectChurnPredictions, models.ChurnPredictionCodec, churn); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectValuePredictions, models.ValuePredictionCodec, value); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectModelMetrics, models.ModelMetricsCodec, metricsTable); err != nil {
		return nil, err
	}

	c.Logger.Info("Scoring complete",
		zap.Int("customers", len(customers)),
		zap.Time("reference_date", referenceDate),
		zap.Float64("silhouette", segmentMetrics.Silhouette),
		zap.Float64("churn_f1", churnMetrics.F1),
		zap.Float64("value_rmse", valueMetrics.RMSE),
		zap.String("value_note", valueMetrics.Note))
	return &types.ScoreOutput{
		Customers:  len(customers),
		Silhouette: segmentMetrics.Silhouette,
		ChurnF1:    churnMetrics.F1,
		ValueRMSE:  valueMetrics.RMSE,
		ValueNote:  valueMetrics.Note,
	}, nil
}
