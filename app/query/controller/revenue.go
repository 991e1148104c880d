package controller

import (
	"net/http"

	"github.com/brightlake/brightlake/pkg/models"
)

// RevenueByCountry returns the per-country revenue aggregate.
func (c *Controller) RevenueByCountry(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionRevenueByCountry)
}

// RevenueByProduct returns the per-product revenue aggregate.
func (c *Controller) RevenueByProduct(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionRevenueByProduct)
}

// MonthlyRevenue returns the per-month revenue aggregate.
func (c *Controller) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionMonthlyRevenue)
}
