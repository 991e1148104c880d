package models

import "time"

// CountryRevenue is one row of the revenue-by-country aggregate.
type CountryRevenue struct {
	Country        string  `json:"country"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalPurchases int64   `json:"total_purchases"`
	AvgBasket      float64 `json:"avg_basket"`
}

// ProductRevenue is one row of the revenue-by-product aggregate, sorted
// descending by total revenue.
type ProductRevenue struct {
	Product      string  `json:"product"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalSales   int64   `json:"total_sales"`
	AvgPrice     float64 `json:"avg_price"`
}

// MonthlyRevenue is one row of the monthly trend aggregate. Month carries
// the canonical "YYYY-MM" key.
type MonthlyRevenue struct {
	Month          string  `json:"month"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalPurchases int64   `json:"total_purchases"`
	AvgBasket      float64 `json:"avg_basket"`
}

// CustomerMetrics is the per-customer aggregate, left-joined onto the full
// cleaned customer set: customers with zero purchases keep zero sums and nil
// purchase timestamps.
type CustomerMetrics struct {
	CustomerID    int64      `json:"customer_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Country       string     `json:"country"`
	SignupDate    time.Time  `json:"signup_date"`
	TotalSpent    float64    `json:"total_spent"`
	PurchaseCount int64      `json:"purchase_count"`
	AvgBasket     float64    `json:"avg_basket"`
	FirstPurchase *time.Time `json:"first_purchase"`
	LastPurchase  *time.Time `json:"last_purchase"`
}

const countryRevenueSchema = `{
  "type": "record",
  "name": "CountryRevenue",
  "fields": [
    {"name": "country", "type": "string"},
    {"name": "total_revenue", "type": "double"},
    {"name": "total_purchases", "type": "long"},
    {"name": "avg_basket", "type": "double"}
  ]
}`

const productRevenueSchema = `{
  "type": "record",
  "name": "ProductRevenue",
  "fields": [
    {"name": "product", "type": "string"},
    {"name": "total_revenue", "type": "double"},
    {"name": "total_sales", "type": "long"},
    {"name": "avg_price", "type": "double"}
  ]
}`

const monthlyRevenueSchema = `{
  "type": "record",
  "name": "MonthlyRevenue",
  "fields": [
    {"name": "month", "type": "string"},
    {"name": "total_revenue", "type": "double"},
    {"name": "total_purchases", "type": "long"},
    {"name": "avg_basket", "type": "double"}
  ]
}`

const customerMetricsSchema = `{
  "type": "record",
  "name": "CustomerMetrics",
  "fields": [
    {"name": "customer_id", "type": "long"},
    {"name": "name", "type": "string"},
    {"name": "email", "type": "string"},
    {"name": "country", "type": "string"},
    {"name": "signup_date", "type": {"type": "long", "logicalType": "timestamp-millis"}},
    {"name": "total_spent", "type": "double"},
    {"name": "purchase_count", "type": "long"},
    {"name": "avg_basket", "type": "double"},
    {"name": "first_purchase", "type": ["null", {"type": "long", "logicalType": "timestamp-millis"}]},
    {"name": "last_purchase", "type": ["null", {"type": "long", "logicalType": "timestamp-millis"}]}
  ]
}`

// CountryRevenueCodec round-trips the by-country aggregate.
var CountryRevenueCodec = Codec[CountryRevenue]{
	Name:   "revenue_by_country",
	Schema: countryRevenueSchema,
	ToRecord: func(r CountryRevenue) map[string]any {
		return map[string]any{
			"country":         r.Country,
			"total_revenue":   r.TotalRevenue,
			"total_purchases": r.TotalPurchases,
			"avg_basket":      r.AvgBasket,
		}
	},
	FromRecord: func(record map[string]any) (CountryRevenue, error) {
		var r CountryRevenue
		var err error
		if r.Country, err = recString(record, "country"); err != nil {
			return r, err
		}
		if r.TotalRevenue, err = recDouble(record, "total_revenue"); err != nil {
			return r, err
		}
		if r.TotalPurchases, err = recLong(record, "total_purchases"); err != nil {
			return r, err
		}
		if r.AvgBasket, err = recDouble(record, "avg_basket"); err != nil {
			return r, err
		}
		return r, nil
	},
}

// ProductRevenueCodec round-trips the by-product aggregate.
var ProductRevenueCodec = Codec[ProductRevenue]{
	Name:   "revenue_by_product",
	Schema: productRevenueSchema,
	ToRecord: func(r ProductRevenue) map[string]any {
		return map[string]any{
			"product":       r.Product,
			"total_revenue": r.TotalRevenue,
			"total_sales":   r.TotalSales,
			"avg_price":     r.AvgPrice,
		}
	},
	FromRecord: func(record map[string]any) (ProductRevenue, error) {
		var r ProductRevenue
		var err error
		if r.Product, err = recString(record, "product"); err != nil {
			return r, err
		}
		if r.TotalRevenue, err = recDouble(record, "total_revenue"); err != nil {
			return r, err
		}
		if r.TotalSales, err = recLong(record, "total_sales"); err != nil {
			return r, err
		}
		if r.AvgPrice, err = recDouble(record, "avg_price"); err != nil {
			return r, err
		}
		return r, nil
	},
}

// MonthlyRevenueCodec round-trips the monthly trend aggregate.
var MonthlyRevenueCodec = Codec[MonthlyRevenue]{
	Name:   "monthly_revenue",
	Schema: monthlyRevenueSchema,
	ToRecord: func(r MonthlyRevenue) map[string]any {
		return map[string]any{
			"month":           r.Month,
			"total_revenue":   r.TotalRevenue,
			"total_purchases": r.TotalPurchases,
			"avg_basket":      r.AvgBasket,
		}
	},
	FromRecord: func(record map[string]any) (MonthlyRevenue, error) {
		var r MonthlyRevenue
		var err error
		if r.Month, err = recString(record, "month"); err != nil {
			return r, err
		}
		if r.TotalRevenue, err = recDouble(record, "total_revenue"); err != nil {
			return r, err
		}
		if r.TotalPurchases, err = recLong(record, "total_purchases"); err != nil {
			return r, err
		}
		if r.AvgBasket, err = recDouble(record, "avg_basket"); err != nil {
			return r, err
		}
		return r, nil
	},
}

// CustomerMetricsCodec round-trips the per-customer aggregate.
var CustomerMetricsCodec = Codec[CustomerMetrics]{
	Name:   "customer_metrics",
	Schema: customerMetricsSchema,
	ToRecord: func(r CustomerMetrics) map[string]any {
		return map[string]any{
			"customer_id":    r.CustomerID,
			"name":           r.Name,
			"email":          r.Email,
			"country":        r.Country,
			"signup_date":    r.SignupDate.UTC(),
			"total_spent":    r.TotalSpent,
			"purchase_count": r.PurchaseCount,
			"avg_basket":     r.AvgBasket,
			"first_purchase": optTimeRecord(r.FirstPurchase),
			"last_purchase":  optTimeRecord(r.LastPurchase),
		}
	},
	FromRecord: func(record map[string]any) (CustomerMetrics, error) {
		var r CustomerMetrics
		var err error
		if r.CustomerID, err = recLong(record, "customer_id"); err != nil {
			return r, err
		}
		if r.Name, err = recString(record, "name"); err != nil {
			return r, err
		}
		if r.Email, err = recString(record, "email"); err != nil {
			return r, err
		}
		if r.Country, err = recString(record, "country"); err != nil {
			return r, err
		}
		if r.SignupDate, err = recTime(record, "signup_date"); err != nil {
			return r, err
		}
		if r.TotalSpent, err = recDouble(record, "total_spent"); err != nil {
			return r, err
		}
		if r.PurchaseCount, err = recLong(record, "purchase_count"); err != nil {
			return r, err
		}
		if r.AvgBasket, err = recDouble(record, "avg_basket"); err != nil {
			return r, err
		}
		if r.FirstPurchase, err = recOptTime(record, "first_purchase"); err != nil {
			return r, err
		}
		if r.LastPurchase, err = recOptTime(record, "last_purchase"); err != nil {
			return r, err
		}
		return r, nil
	},
}
