package activity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/schema"
)

// Ingest validates both source files against their declared schemas and, only
// if both pass, snapshots them into the sources bucket and copies them to the
// raw layer. A validation failure aborts before any write.
func (c *Context) Ingest(ctx context.Context, in types.IngestInput) (*types.IngestOutput, error) {
	customersPath := in.CustomersPath
	if customersPath == "" {
		customersPath = filepath.Join(c.Cfg.DataDir, models.ObjectCustomersCSV)
	}
	purchasesPath := in.PurchasesPath
	if purchasesPath == "" {
		purchasesPath = filepath.Join(c.Cfg.DataDir, models.ObjectPurchasesCSV)
	}

	customersCSV, customersReport, err := c.validateFile(customersPath, schema.KindCustomers)
	if err != nil {
		return nil, err
	}
	purchasesCSV, purchasesReport, err := c.validateFile(purchasesPath, schema.KindPurchases)
	if err != nil {
		return nil, err
	}

	uploads := []struct {
		object string
		data   []byte
	}{
		{models.ObjectCustomersCSV, customersCSV},
		{models.ObjectPurchasesCSV, purchasesCSV},
	}
	for _, u := range uploads {
		if _, err := c.Store.Put(ctx, c.Cfg.Buckets.Sources, u.object, u.data); err != nil {
			return nil, storeErr(err, "upload source %s", u.object)
		}
		if _, err := c.Store.Put(ctx, c.Cfg.Buckets.Raw, u.object, u.data); err != nil {
			return nil, storeErr(err, "copy %s to raw layer", u.object)
		}
	}

	c.Logger.Info("Ingest complete",
		zap.Int("customer_rows", customersReport.RowsRead),
		zap.Int("purchase_rows", purchasesReport.RowsRead))
	return &types.IngestOutput{
		CustomerRows: customersReport.RowsRead,
		PurchaseRows: purchasesReport.RowsRead,
	}, nil
}

func (c *Context) validateFile(path string, kind schema.Kind) ([]byte, schema.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.Report{}, fmt.Errorf("read source file %s: %w", path, err)
	}

	header, rows, err := schema.ParseCSV(data)
	if err != nil {
		return nil, schema.Report{}, fmt.Errorf("parse %s: %w", path, err)
	}

	report, err := schema.Validate(c.Logger, kind, header, rows)
	if err != nil {
		return nil, report, fmt.Errorf("validate %s: %w", path, err)
	}
	return data, report, nil
}
