package models

// CustomerSegment is an RFM feature row extended with the clustering output.
// SegmentName follows the deterministic desirability ranking, never the raw
// cluster index.
type CustomerSegment struct {
	CustomerID  int64   `json:"customer_id"`
	Recency     float64 `json:"recency"`
	Frequency   float64 `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	SegmentID   int64   `json:"segment_id"`
	SegmentName string  `json:"segment_name"`
}

// ChurnPrediction is a churn feature row extended with the classifier score
// and its thresholded risk bucket.
type ChurnPrediction struct {
	CustomerID       int64   `json:"customer_id"`
	DaysSinceLast    float64 `json:"days_since_last"`
	Frequency        float64 `json:"frequency"`
	AvgBasket        float64 `json:"avg_basket"`
	Tenure           float64 `json:"tenure"`
	IsChurned        int64   `json:"is_churned"`
	ChurnProbability float64 `json:"churn_probability"`
	ChurnRiskLevel   string  `json:"churn_risk_level"`
}

// ValuePrediction is a value feature row extended with the 12-month
// prediction and its fixed-boundary segment.
type ValuePrediction struct {
	CustomerID        int64   `json:"customer_id"`
	AvgPurchase       float64 `json:"avg_purchase"`
	Frequency         float64 `json:"frequency"`
	CustomerAge       float64 `json:"customer_age"`
	HistoricalValue   float64 `json:"historical_value"`
	PredictedValue12M float64 `json:"predicted_value_12m"`
	ValueSegment      string  `json:"value_segment"`
}

const customerSegmentSchema = `{
  "type": "record",
  "name": "CustomerSegment",
  "fields": [
    {"name": "customer_id", "type": "long"},
    {"name": "recency", "type": "double"},
    {"name": "frequency", "type": "double"},
    {"name": "monetary", "type": "double"},
    {"name": "segment_id", "type": "long"},
    {"name": "segment_name", "type": "string"}
  ]
}`

const churnPredictionSchema = `{
  "type": "record",
  "name": "ChurnPrediction",
  "fields": [
    {"name": "customer_id", "type": "long"},
    {"name": "days_since_last", "type": "double"},
    {"name": "frequency", "type": "double"},
    {"name": "avg_basket", "type": "double"},
    {"name": "tenure", "type": "double"},
    {"name": "is_churned", "type": "long"},
    {"name": "churn_probability", "type": "double"},
    {"name": "churn_risk_level", "type": "string"}
  ]
}`

const valuePredictionSchema = `{
  "type": "record",
  "name": "ValuePrediction",
  "fields": [
    {"name": "customer_id", "type": "long"},
    {"name": "avg_purchase", "type": "double"},
    {"name": "frequency", "type": "double"},
    {"name": "customer_age", "type": "double"},
    {"name": "historical_value", "type": "double"},
    {"name": "predicted_value_12m", "type": "double"},
    {"name": "value_segment", "type": "string"}
  ]
}`

// CustomerSegmentCodec round-trips the segmentation output.
var CustomerSegmentCodec = Codec[CustomerSegment]{
	Name:   "customer_segments",
	Schema: customerSegmentSchema,
	ToRecord: func(s CustomerSegment) map[string]any {
		return map[string]any{
			"customer_id":  s.CustomerID,
			"recency":      s.Recency,
			"frequency":    s.Frequency,
			"monetary":     s.Monetary,
			"segment_id":   s.SegmentID,
			"segment_name": s.SegmentName,
		}
	},
	FromRecord: func(record map[string]any) (CustomerSegment, error) {
		var s CustomerSegment
		var err error
		if s.CustomerID, err = recLong(record, "customer_id"); err != nil {
			return s, err
		}
		if s.Recency, err = recDouble(record, "recency"); err != nil {
			return s, err
		}
		if s.Frequency, err = recDouble(record, "frequency"); err != nil {
			return s, err
		}
		if s.Monetary, err = recDouble(record, "monetary"); err != nil {
			return s, err
		}
		if s.SegmentID, err = recLong(record, "segment_id"); err != nil {
			return s, err
		}
		if s.SegmentName, err = recString(record, "segment_name"); err != nil {
			return s, err
		}
		return s, nil
	},
}

// ChurnPredictionCodec round-trips the churn scoring output.
var ChurnPredictionCodec = Codec[ChurnPrediction]{
	Name:   "churn_predictions",
	Schema: churnPredictionSchema,
	ToRecord: func(p ChurnPrediction) map[string]any {
		return map[string]any{
			"customer_id":       p.CustomerID,
			"days_since_last":   p.DaysSinceLast,
			"frequency":         p.Frequency,
			"avg_basket":        p.AvgBasket,
			"tenure":            p.Tenure,
			"is_churned":        p.IsChurned,
			"churn_probability": p.ChurnProbability,
			"churn_risk_level":  p.ChurnRiskLevel,
		}
	},
	FromRecord: func(record map[string]any) (ChurnPrediction, error) {
		var p ChurnPrediction
		var err error
		if p.CustomerID, err = recLong(record, "customer_id"); err != nil {
			return p, err
		}
		if p.DaysSinceLast, err = recDouble(record, "days_since_last"); err != nil {
			return p, err
		}
		if p.Frequency, err = recDouble(record, "frequency"); err != nil {
			return p, err
		}
		if p.AvgBasket, err = recDouble(record, "avg_basket"); err != nil {
			return p, err
		}
		if p.Tenure, err = recDouble(record, "tenure"); err != nil {
			return p, err
		}
		if p.IsChurned, err = recLong(record, "is_churned"); err != nil {
			return p, err
		}
		if p.ChurnProbability, err = recDouble(record, "churn_probability"); err != nil {
			return p, err
		}
		if p.ChurnRiskLevel, err = recString(record, "churn_risk_level"); err != nil {
			return p, err
		}
		return p, nil
	},
}

// ValuePredictionCodec round-trips the value scoring output.
var ValuePredictionCodec = Codec[ValuePrediction]{
	Name:   "clv_predictions",
	Schema: valuePredictionSchema,
	ToRecord: func(p ValuePrediction) map[string]any {
		return map[string]any{
			"customer_id":         p.CustomerID,
			"avg_purchase":        p.AvgPurchase,
			"frequency":           p.Frequency,
			"customer_age":        p.CustomerAge,
			"historical_value":    p.HistoricalValue,
			"predicted_value_12m": p.PredictedValue12M,
			"value_segment":       p.ValueSegment,
		}
	},
	FromRecord: func(record map[string]any) (ValuePrediction, error) {
		var p ValuePrediction
		var err error
		if p.CustomerID, err = recLong(record, "customer_id"); err != nil {
			return p, err
		}
		if p.AvgPurchase, err = recDouble(record, "avg_purchase"); err != nil {
			return p, err
		}
		if p.Frequency, err = recDouble(record, "frequency"); err != nil {
			return p, err
		}
		if p.CustomerAge, err = recDouble(record, "customer_age"); err != nil {
			return p, err
		}
		if p.HistoricalValue, err = recDouble(record, "historical_value"); err != nil {
			return p, err
		}
		if p.PredictedValue12M, err = recDouble(record, "predicted_value_12m"); err != nil {
			return p, err
		}
		if p.ValueSegment, err = recString(record, "value_segment"); err != nil {
			return p, err
		}
		return p, nil
	},
}
