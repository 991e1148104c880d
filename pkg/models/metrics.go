package models

// Metric table notes.
const (
	// NoteInsufficientData flags a model metrics row produced by the
	// degenerate fallback path instead of real training.
	NoteInsufficientData = "insufficient_data_for_training"
)

// ModelMetrics is one row of the fixed-cardinality model-quality table:
// exactly one row per model per run, including degenerate runs. Metrics that
// do not apply to a model stay zero.
type ModelMetrics struct {
	Model      string  `json:"model"`
	Algorithm  string  `json:"algorithm"`
	NSamples   int64   `json:"n_samples"`
	NFeatures  int64   `json:"n_features"`
	Silhouette float64 `json:"silhouette_score"`
	Accuracy   float64 `json:"accuracy"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1_score"`
	MSE        float64 `json:"mse"`
	RMSE       float64 `json:"rmse"`
	R2         float64 `json:"r2"`
	Note       string  `json:"note"`
}

const modelMetricsSchema = `{
  "type": "record",
  "name": "ModelMetrics",
  "fields": [
    {"name": "model", "type": "string"},
    {"name": "algorithm", "type": "string"},
    {"name": "n_samples", "type": "long"},
    {"name": "n_features", "type": "long"},
    {"name": "silhouette_score", "type": "double"},
    {"name": "accuracy", "type": "double"},
    {"name": "precision", "type": "double"},
    {"name": "recall", "type": "double"},
    {"name": "f1_score", "type": "double"},
    {"name": "mse", "type": "double"},
    {"name": "rmse", "type": "double"},
    {"name": "r2", "type": "double"},
    {"name": "note", "type": "string"}
  ]
}`

// ModelMetricsCodec round-trips the metrics table.
var ModelMetricsCodec = Codec[ModelMetrics]{
	Name:   "ml_model_metrics",
	Schema: modelMetricsSchema,
	ToRecord: func(m ModelMetrics) map[string]any {
		return map[string]any{
			"model":            m.Model,
			"algorithm":        m.Algorithm,
			"n_samples":        m.NSamples,
			"n_features":       m.NFeatures,
			"silhouette_score": m.Silhouette,
			"accuracy":         m.Accuracy,
			"precision":        m.Precision,
			"recall":           m.Recall,
			"f1_score":         m.F1,
			"mse":              m.MSE,
			"rmse":             m.RMSE,
			"r2":               m.R2,
			"note":             m.Note,
		}
	},
	FromRecord: func(record map[string]any) (ModelMetrics, error) {
		var m ModelMetrics
		var err error
		if m.Model, err = recString(record, "model"); err != nil {
			return m, err
		}
		if m.Algorithm, err = recString(record, "algorithm"); err != nil {
			return m, err
		}
		if m.NSamples, err = recLong(record, "n_samples"); err != nil {
			return m, err
		}
		if m.NFeatures, err = recLong(record, "n_features"); err != nil {
			return m, err
		}
		if m.Silhouette, err = recDouble(record, "silhouette_score"); err != nil {
			return m, err
		}
		if m.Accuracy, err = recDouble(record, "accuracy"); err != nil {
			return m, err
		}
		if m.Precision, err = recDouble(record, "precision"); err != nil {
			return m, err
		}
		if m.Recall, err = recDouble(record, "recall"); err != nil {
			return m, err
		}
		if m.F1, err = recDouble(record, "f1_score"); err != nil {
			return m, err
		}
		if m.MSE, err = recDouble(record, "mse"); err != nil {
			return m, err
		}
		if m.RMSE, err = recDouble(record, "rmse"); err != nil {
			return m, err
		}
		if m.R2, err = recDouble(record, "r2"); err != nil {
			return m, err
		}
		if m.Note, err = recString(record, "note"); err != nil {
			return m, err
		}
		return m, nil
	},
}
