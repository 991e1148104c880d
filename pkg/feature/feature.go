package feature

import (
	"time"

	"github.com/brightlake/brightlake/pkg/models"
)

// perCustomer is the purchase aggregate all three feature builders share.
type perCustomer struct {
	first time.Time
	last  time.Time
	count int64
	sum   float64
}

func aggregatePurchases(purchases []models.Purchase) map[int64]*perCustomer {
	agg := make(map[int64]*perCustomer)
	for _, p := range purchases {
		a := agg[p.CustomerID]
		if a == nil {
			a = &perCustomer{first: p.Date, last: p.Date}
			agg[p.CustomerID] = a
		}
		if p.Date.Before(a.first) {
			a.first = p.Date
		}
		if p.Date.After(a.last) {
			a.last = p.Date
		}
		a.count++
		a.sum += p.Amount
	}
	return agg
}

// ReferenceDate is the single fixed instant all feature sets measure
// against: one day past the newest purchase, recomputed per run. It is
// never wall-clock "now", so a fixed input snapshot always yields the same
// features. Zero when there are no purchases at all.
func ReferenceDate(purchases []models.Purchase) time.Time {
	var max time.Time
	for _, p := range purchases {
		if p.Date.After(max) {
			max = p.Date
		}
	}
	if max.IsZero() {
		return time.Time{}
	}
	return max.AddDate(0, 0, 1)
}

func daysBetween(from, to time.Time) float64 {
	return float64(int64(to.Sub(from).Hours() / 24))
}

// RFM derives recency/frequency/monetary features for every customer.
// Customers with zero purchases get the recency sentinel and zero
// frequency/monetary instead of being dropped.
func RFM(customers []models.Customer, purchases []models.Purchase, referenceDate time.Time) []models.RFMFeatures {
	agg := aggregatePurchases(purchases)

	out := make([]models.RFMFeatures, 0, len(customers))
	for _, c := range customers {
		row := models.RFMFeatures{
			CustomerID: c.ID,
			Recency:    models.RecencySentinelDays,
		}
		if a := agg[c.ID]; a != nil {
			row.Recency = daysBetween(a.last, referenceDate)
			row.Frequency = float64(a.count)
			row.Monetary = a.sum
		}
		out = append(out, row)
	}
	return out
}

// Churn derives the churn-indicator features. IsChurned uses an exclusive
// boundary: exactly thresholdDays since the last purchase is not churned.
func Churn(customers []models.Customer, purchases []models.Purchase, referenceDate time.Time, thresholdDays int) []models.ChurnFeatures {
	agg := aggregatePurchases(purchases)

	out := make([]models.ChurnFeatures, 0, len(customers))
	for _, c := range customers {
		row := models.ChurnFeatures{
			CustomerID:    c.ID,
			DaysSinceLast: models.RecencySentinelDays,
		}
		if a := agg[c.ID]; a != nil {
			row.DaysSinceLast = daysBetween(a.last, referenceDate)
			row.Frequency = float64(a.count)
			row.AvgBasket = a.sum / float64(a.count)
			row.Tenure = daysBetween(a.first, a.last)
		}
		if row.DaysSinceLast > float64(thresholdDays) {
			row.IsChurned = 1
		}
		out = append(out, row)
	}
	return out
}

// Value derives the lifetime-value inputs. HistoricalValue is the lifetime
// sum of purchase amounts.
func Value(customers []models.Customer, purchases []models.Purchase, referenceDate time.Time) []models.ValueFeatures {
	agg := aggregatePurchases(purchases)

	out := make([]models.ValueFeatures, 0, len(customers))
	for _, c := range customers {
		row := models.ValueFeatures{CustomerID: c.ID}
		if !referenceDate.IsZero() {
			row.CustomerAge = daysBetween(c.SignupDate, referenceDate)
		}
		if a := agg[c.ID]; a != nil {
			row.AvgPurchase = a.sum / float64(a.count)
			row.Frequency = float64(a.count)
			row.HistoricalValue = a.sum
		}
		out = append(out, row)
	}
	return out
}
