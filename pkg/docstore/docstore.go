package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/models"
)

// ErrNotFound reports a single-document lookup with no match.
var ErrNotFound = errors.New("document not found")

// Store is the write surface the publish stage depends on.
type Store interface {
	Replace(ctx context.Context, collection string, docs []map[string]any) (int, error)
}

// Reader is the read surface the query service depends on.
type Reader interface {
	All(ctx context.Context, collection string) ([]bson.M, error)
	FindByCustomerID(ctx context.Context, collection string, customerID int64) (bson.M, error)
	Filter(ctx context.Context, collection string, filter bson.M) ([]bson.M, error)
	Count(ctx context.Context, collection string) (int64, error)
	SegmentSummary(ctx context.Context) ([]bson.M, error)
}

// Client wraps the analytics document database.
type Client struct {
	Logger *zap.Logger
	db     *mongo.Database
}

// New connects to the document store and pings it so a misconfigured URI
// fails at startup instead of at publish time.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping document store: %w", err)
	}

	logger.Info("Document store connection ready", zap.String("database", cfg.MongoDB))
	return &Client{
		Logger: logger,
		db:     mc.Database(cfg.MongoDB),
	}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.db.Client().Disconnect(ctx)
}

// Replace swaps the full contents of a collection: delete everything, then
// insert the new generation. An empty docs slice still runs the delete, so
// publishing an empty table empties the collection rather than skipping it.
// Not transactional; a failure between the two steps is repaired by
// re-running the publish.
func (c *Client) Replace(ctx context.Context, collection string, docs []map[string]any) (int, error) {
	coll := c.db.Collection(collection)

	deleted, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear collection %s: %w", collection, err)
	}

	if len(docs) == 0 {
		c.Logger.Info("Published empty collection",
			zap.String("collection", collection),
			zap.Int64("deleted", deleted.DeletedCount))
		return 0, nil
	}

	payload := make([]any, len(docs))
	for i, doc := range docs {
		payload[i] = doc
	}
	result, err := coll.InsertMany(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", collection, err)
	}

	c.Logger.Info("Published collection",
		zap.String("collection", collection),
		zap.Int64("deleted", deleted.DeletedCount),
		zap.Int("inserted", len(result.InsertedIDs)))
	return len(result.InsertedIDs), nil
}

// All returns every document of a collection without its object id.
func (c *Client) All(ctx context.Context, collection string) ([]bson.M, error) {
	return c.Filter(ctx, collection, bson.M{})
}

// Filter returns the documents matching the given filter.
func (c *Client) Filter(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	cursor, err := c.db.Collection(collection).Find(ctx, filter,
		options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return docs, nil
}

// FindByCustomerID returns the single document for a customer id, or
// ErrNotFound.
func (c *Client) FindByCustomerID(ctx context.Context, collection string, customerID int64) (bson.M, error) {
	var doc bson.M
	err := c.db.Collection(collection).FindOne(ctx, bson.M{"customer_id": customerID},
		options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d in %s: %w", customerID, collection, err)
	}
	return doc, nil
}

// Count returns the number of documents in a collection.
func (c *Client) Count(ctx context.Context, collection string) (int64, error) {
	n, err := c.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// SegmentSummary groups the published segments by name with customer counts
// and average RFM figures, sorted by size.
func (c *Client) SegmentSummary(ctx context.Context) ([]bson.M, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$segment_name",
			"customers":     bson.M{"$sum": 1},
			"avg_recency":   bson.M{"$avg": "$recency"},
			"avg_frequency": bson.M{"$avg": "$frequency"},
			"avg_monetary":  bson.M{"$avg": "$monetary"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"segment_name":  "$_id",
			"customers":     1,
			"avg_recency":   1,
			"avg_frequency": 1,
			"avg_monetary":  1,
		}}},
		{{Key: "$sort", Value: bson.M{"customers": -1, "segment_name": 1}}},
	}

	cursor, err := c.db.Collection(models.CollectionCustomerSegments).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate segment summary: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode segment summary: %w", err)
	}
	return docs, nil
}
