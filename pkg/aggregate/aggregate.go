package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/brightlake/brightlake/pkg/models"
)

// Monetary outputs are rounded to 2 decimals at the point of aggregation;
// intermediate sums keep full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type bucket struct {
	sum   float64
	count int64
	first time.Time
	last  time.Time
}

func (b *bucket) add(p models.Purchase) {
	b.sum += p.Amount
	b.count++
	if b.count == 1 || p.Date.Before(b.first) {
		b.first = p.Date
	}
	if b.count == 1 || p.Date.After(b.last) {
		b.last = p.Date
	}
}

func (b *bucket) mean() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

// RevenueByCountry groups purchases by the buyer's country. Output is sorted
// by country name for a stable result.
func RevenueByCountry(customers []models.Customer, purchases []models.Purchase) []models.CountryRevenue {
	countryOf := make(map[int64]string, len(customers))
	for _, c := range customers {
		countryOf[c.ID] = c.Country
	}

	buckets := make(map[string]*bucket)
	for _, p := range purchases {
		country, ok := countryOf[p.CustomerID]
		if !ok {
			// cannot happen after the referential pass
			continue
		}
		b := buckets[country]
		if b == nil {
			b = &bucket{}
			buckets[country] = b
		}
		b.add(p)
	}

	out := make([]models.CountryRevenue, 0, len(buckets))
	for country, b := range buckets {
		out = append(out, models.CountryRevenue{
			Country:        country,
			TotalRevenue:   round2(b.sum),
			TotalPurchases: b.count,
			AvgBasket:      round2(b.mean()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// RevenueByProduct groups purchases by product, sorted descending by total
// revenue with ties kept in first-seen order.
func RevenueByProduct(purchases []models.Purchase) []models.ProductRevenue {
	buckets := make(map[string]*bucket)
	var order []string
	for _, p := range purchases {
		b := buckets[p.Product]
		if b == nil {
			b = &bucket{}
			buckets[p.Product] = b
			order = append(order, p.Product)
		}
		b.add(p)
	}

	out := make([]models.ProductRevenue, 0, len(order))
	for _, product := range order {
		b := buckets[product]
		out = append(out, models.ProductRevenue{
			Product:      product,
			TotalRevenue: round2(b.sum),
			TotalSales:   b.count,
			AvgPrice:     round2(b.mean()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRevenue > out[j].TotalRevenue })
	return out
}

// MonthlyRevenue truncates purchase dates to year-month granularity and
// returns the trend sorted ascending by month key.
func MonthlyRevenue(purchases []models.Purchase) []models.MonthlyRevenue {
	buckets := make(map[string]*bucket)
	for _, p := range purchases {
		month := p.Date.Format("2006-01")
		b := buckets[month]
		if b == nil {
			b = &bucket{}
			buckets[month] = b
		}
		b.add(p)
	}

	out := make([]models.MonthlyRevenue, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, models.MonthlyRevenue{
			Month:          month,
			TotalRevenue:   round2(b.sum),
			TotalPurchases: b.count,
			AvgBasket:      round2(b.mean()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CustomerMetrics left-joins per-customer purchase aggregates onto the full
// cleaned customer set: customers with zero purchases appear with zero sums
// and nil purchase timestamps, never dropped. Row order follows the cleaned
// customer snapshot.
func CustomerMetrics(customers []models.Customer, purchases []models.Purchase) []models.CustomerMetrics {
	buckets := make(map[int64]*bucket, len(customers))
	for _, p := range purchases {
		b := buckets[p.CustomerID]
		if b == nil {
			b = &bucket{}
			buckets[p.CustomerID] = b
		}
		b.add(p)
	}

	out := make([]models.CustomerMetrics, 0, len(customers))
	for _, c := range customers {
		m := models.CustomerMetrics{
			CustomerID: c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Country:    c.Country,
			SignupDate: c.SignupDate,
		}
		if b := buckets[c.ID]; b != nil {
			first, last := b.first, b.last
			m.TotalSpent = round2(b.sum)
			m.PurchaseCount = b.count
			m.AvgBasket = round2(b.mean())
			m.FirstPurchase = &first
			m.LastPurchase = &last
		}
		out = append(out, m)
	}
	return out
}
