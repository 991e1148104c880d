package activity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/clean"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/schema"
)

// Clean reads the raw CSV snapshots, applies the row-level cleaning rules,
// strips orphaned purchases, and writes the cleaned tables to the cleaned
// layer as Avro snapshots.
func (c *Context) Clean(ctx context.Context, _ struct{}) (*types.CleanOutput, error) {
	customerHeader, customerRows, err := c.rawCSV(ctx, models.ObjectCustomersCSV)
	if err != nil {
		return nil, err
	}
	purchaseHeader, purchaseRows, err := c.rawCSV(ctx, models.ObjectPurchasesCSV)
	if err != nil {
		return nil, err
	}

	customers, customerStats, err := clean.Customers(c.Logger, customerHeader, customerRows)
	if err != nil {
		return nil, fmt.Errorf("clean customers: %w", err)
	}
	purchases, purchaseStats, err := clean.Purchases(c.Logger, purchaseHeader, purchaseRows)
	if err != nil {
		return nil, fmt.Errorf("clean purchases: %w", err)
	}
	purchases, orphans := clean.DropOrphans(c.Logger, purchases, customers)

	if err := putOCF(ctx, c.Store, c.Cfg.Buckets.Cleaned, models.ObjectCustomers, models.CustomerCodec, customers); err != nil {
		return nil, err
	}
	if err := putOCF(ctx, c.Store, c.Cfg.Buckets.Cleaned, models.ObjectPurchases, models.PurchaseCodec, purchases); err != nil {
		return nil, err
	}

	c.Logger.Info("Clean complete",
		zap.Int("customers", len(customers)),
		zap.Int("purchases", len(purchases)),
		zap.Int("customers_dropped", customerStats.RowsDropped),
		zap.Int("purchases_dropped", purchaseStats.RowsDropped),
		zap.Int("orphans", orphans))
	return &types.CleanOutput{
		Customers:        len(customers),
		Purchases:        len(purchases),
		CustomersDropped: customerStats.RowsDropped,
		PurchasesDropped: purchaseStats.RowsDropped,
		Orphans:          orphans,
	}, nil
}

func (c *Context) rawCSV(ctx context.Context, object string) ([]string, [][]string, error) {
	data, err := c.Store.Get(ctx, c.Cfg.Buckets.Raw, object)
	if err != nil {
		return nil, nil, storeErr(err, "fetch raw %s", object)
	}
	header, rows, err := schema.ParseCSV(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse raw %s: %w", object, err)
	}
	return header, rows, nil
}

// cleanedTables fetches both cleaned snapshots; shared by the aggregate and
// scoring stages.
func (c *Context) cleanedTables(ctx context.Context) ([]models.Customer, []models.Purchase, error) {
	customers, err := getOCF(ctx, c.Store, c.Cfg.Buckets.Cleaned, models.ObjectCustomers, models.CustomerCodec)
	if err != nil {
		return nil, nil, err
	}
	purchases, err := getOCF(ctx, c.Store, c.Cfg.Buckets.Cleaned, models.ObjectPurchases, models.PurchaseCodec)
	if err != nil {
		return nil, nil, err
	}
	return customers, purchases, nil
}
