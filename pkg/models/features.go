package models

// Feature rows exist for every cleaned customer, including customers with
// zero purchases: missing aggregates default to the documented sentinels
// instead of being dropped or left null.

// RecencySentinelDays is the recency/days-since-last value assigned to
// customers without any purchase.
const RecencySentinelDays = 9999

// RFMFeatures is the recency/frequency/monetary feature triad.
type RFMFeatures struct {
	CustomerID int64   `json:"customer_id"`
	Recency    float64 `json:"recency"`
	Frequency  float64 `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// ChurnFeatures feeds the churn classifier. IsChurned is 1 when
// DaysSinceLast exceeds the configured threshold (exclusive boundary).
type ChurnFeatures struct {
	CustomerID    int64   `json:"customer_id"`
	DaysSinceLast float64 `json:"days_since_last"`
	Frequency     float64 `json:"frequency"`
	AvgBasket     float64 `json:"avg_basket"`
	Tenure        float64 `json:"tenure"`
	IsChurned     int64   `json:"is_churned"`
}

// ValueFeatures feeds the lifetime-value regressor.
type ValueFeatures struct {
	CustomerID      int64   `json:"customer_id"`
	AvgPurchase     float64 `json:"avg_purchase"`
	Frequency       float64 `json:"frequency"`
	CustomerAge     float64 `json:"customer_age"`
	HistoricalValue float64 `json:"historical_value"`
}
