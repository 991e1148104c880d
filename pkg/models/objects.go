package models

// Snapshot object names, one per dataset, following the <kind>.<format>
// convention. CSV in the sources/raw layers, Avro OCF in cleaned/derived.
const (
	ObjectCustomersCSV = "customers.csv"
	ObjectPurchasesCSV = "purchases.csv"

	ObjectCustomers = "customers.avro"
	ObjectPurchases = "purchases.avro"

	ObjectRevenueByCountry = "revenue_by_country.avro"
	ObjectRevenueByProduct = "revenue_by_product.avro"
	ObjectMonthlyRevenue   = "monthly_revenue.avro"
	ObjectCustomerMetrics  = "customer_metrics.avro"

	ObjectCustomerSegments = "customer_segments.avro"
	ObjectChurnPredictions = "churn_predictions.avro"
	ObjectValuePredictions = "clv_predictions.avro"
	ObjectModelMetrics     = "ml_model_metrics.avro"
)

// Downstream collection names. Publishing replaces a collection wholesale.
const (
	CollectionRevenueByCountry = "revenue_by_country"
	CollectionRevenueByProduct = "revenue_by_product"
	CollectionMonthlyRevenue   = "monthly_revenue"
	CollectionCustomerMetrics  = "customer_metrics"
	CollectionCustomerSegments = "customer_segments"
	CollectionChurnPredictions = "churn_predictions"
	CollectionValuePredictions = "clv_predictions"
	CollectionModelMetrics     = "ml_model_metrics"
)

// PublishSet maps each derived snapshot to its downstream collection. The
// publish step is not transactional across collections; a failed run can
// leave a mixed-generation store until the next full run.
var PublishSet = []struct {
	Object     string
	Collection string
}{
	{ObjectRevenueByCountry, CollectionRevenueByCountry},
	{ObjectRevenueByProduct, CollectionRevenueByProduct},
	{ObjectMonthlyRevenue, CollectionMonthlyRevenue},
	{ObjectCustomerMetrics, CollectionCustomerMetrics},
	{ObjectCustomerSegments, CollectionCustomerSegments},
	{ObjectChurnPredictions, CollectionChurnPredictions},
	{ObjectValuePredictions, CollectionValuePredictions},
	{ObjectModelMetrics, CollectionModelMetrics},
}
