package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/aggregate"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
)

// Aggregate computes the four aggregate tables from the cleaned snapshots
// and writes them to the derived layer.
func (c *Context) Aggregate(ctx context.Context, _ struct{}) (*types.AggregateOutput, error) {
	customers, purchases, err := c.cleanedTables(ctx)
	if err != nil {
		return nil, err
	}

	byCountry := aggregate.RevenueByCountry(customers, purchases)
	byProduct := aggregate.RevenueByProduct(purchases)
	monthly := aggregate.MonthlyRevenue(purchases)
	metrics := aggregate.CustomerMetrics(customers, purchases)

	derived := c.Cfg.Buckets.Derived
	if err := putOCF(ctx, c.Store, derived, models.ObjectRevenueByCountry, models.CountryRevenueCodec, byCountry); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectRevenueByProduct, models.ProductRevenueCodec, byProduct); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectMonthlyRevenue, models.MonthlyRevenueCodec, monthly); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, derived, models.ObjectCustomerMetrics, models.CustomerMetricsCodec, metrics); err != nil {
		return nil, err
	}

	c.Logger.Info("Aggregate complete",
		zap.Int("countries", len(byCountry)),
		zap.Int("products", len(byProduct)),
		zap.Int("months", len(monthly)),
		zap.Int("customers", len(metrics)))
	return &types.AggregateOutput{
		Countries: len(byCountry),
		Products:  len(byProduct),
		Months:    len(monthly),
		Customers: len(metrics),
	}, nil
}
