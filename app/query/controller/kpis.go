package controller

import (
	"math"
	"net/http"

	"github.com/brightlake/brightlake/pkg/models"
)

// KPIs derives headline figures at request time from the published
// revenue-by-country and customer-metrics collections.
func (c *Controller) KPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countries, err := c.App.Docs.All(ctx, models.CollectionRevenueByCountry)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}
	customers, err := c.App.Docs.All(ctx, models.CollectionCustomerMetrics)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var totalRevenue float64
	var totalPurchases int64
	for _, doc := range countries {
		totalRevenue += asFloat(doc["total_revenue"])
		totalPurchases += asInt(doc["total_purchases"])
	}

	var active int
	for _, doc := range customers {
		if asInt(doc["purchase_count"]) > 0 {
			active++
		}
	}

	var avgOrder, revenuePerCustomer float64
	if totalPurchases > 0 {
		avgOrder = math.Round(totalRevenue/float64(totalPurchases)*100) / 100
	}
	if len(customers) > 0 {
		revenuePerCustomer = math.Round(totalRevenue/float64(len(customers))*100) / 100
	}

	c.writeJSON(w, map[string]any{
		"total_revenue":        math.Round(totalRevenue*100) / 100,
		"total_purchases":      totalPurchases,
		"total_customers":      len(customers),
		"active_customers":     active,
		"avg_order_value":      avgOrder,
		"revenue_per_customer": revenuePerCustomer,
		"countries":            len(countries),
	})
}

// Published documents come back as loosely typed BSON values; numeric fields
// may decode as int32, int64, or float64 depending on their magnitude.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
