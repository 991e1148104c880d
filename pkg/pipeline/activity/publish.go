package activity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
)

// Publish replaces every downstream collection with the current derived
// snapshots. Empty snapshots still replace, leaving the collection empty.
// Collections are replaced one by one; a failure mid-way leaves a
// mixed-generation store until the next successful run.
func (c *Context) Publish(ctx context.Context, _ struct{}) (*types.PublishOutput, error) {
	var published, documents int
	for _, target := range models.PublishSet {
		data, err := c.Store.Get(ctx, c.Cfg.Buckets.Derived, target.Object)
		if err != nil {
			return nil, storeErr(err, "fetch derived %s", target.Object)
		}
		docs, err := models.DecodeOCFDocuments(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", target.Object, err)
		}

		inserted, err := c.Docs.Replace(ctx, target.Collection, docs)
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", target.Collection, err)
		}
		published++
		documents += inserted
	}

	c.Logger.Info("Publish complete",
		zap.Int("collections", published),
		zap.Int("documents", documents))
	return &types.PublishOutput{Collections: published, Documents: documents}, nil
}
