package controller

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/brightlake/brightlake/pkg/models"
)

// Segments returns the scored customer-segmentation table.
func (c *Controller) Segments(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionCustomerSegments)
}

// SegmentSummary returns per-segment counts and average RFM figures.
func (c *Controller) SegmentSummary(w http.ResponseWriter, r *http.Request) {
	docs, err := c.App.Docs.SegmentSummary(r.Context())
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}
	c.writeJSON(w, docs)
}

// ChurnPredictions returns the full churn scoring table.
func (c *Controller) ChurnPredictions(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionChurnPredictions)
}

// HighRiskChurn returns only the customers bucketed as high churn risk.
func (c *Controller) HighRiskChurn(w http.ResponseWriter, r *http.Request) {
	docs, err := c.App.Docs.Filter(r.Context(), models.CollectionChurnPredictions,
		bson.M{"churn_risk_level": "High"})
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}
	c.writeJSON(w, docs)
}

// ValuePredictions returns the lifetime-value scoring table.
func (c *Controller) ValuePredictions(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionValuePredictions)
}

// ModelMetrics returns the model-quality table, one row per model.
func (c *Controller) ModelMetrics(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionModelMetrics)
}
