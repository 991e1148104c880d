package activity

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/storage"
)

// fakeStore is an in-memory object store with optional failure injection.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failPuts int // next N puts fail with a transient error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) key(bucket, object string) string { return bucket + "/" + object }

func (f *fakeStore) Put(_ context.Context, bucket, object string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPuts > 0 {
		f.failPuts--
		return "", &storage.TransientError{Op: "put " + object, Err: context.DeadlineExceeded}
	}
	f.objects[f.key(bucket, object)] = data
	return object, nil
}

func (f *fakeStore) Get(_ context.Context, bucket, object string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[f.key(bucket, object)]
	if !ok {
		return nil, &storage.PermanentError{Op: "get " + object, Err: os.ErrNotExist}
	}
	return data, nil
}

// fakeDocs is an in-memory document store.
type fakeDocs struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{collections: make(map[string][]map[string]any)}
}

func (f *fakeDocs) Replace(_ context.Context, collection string, docs []map[string]any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[collection] = docs
	return len(docs), nil
}

const customersCSV = `customer_id,name,email,signup_date,country
1,alice adams,Alice@Example.com,2023-01-01,france
2,bob brown,bob@example.com,2023-06-01,france
3,carol clark,carol@example.com,2024-01-01,japan
4,dave dunn,dave@example.com,2024-01-15,japan
`

const purchasesCSV = `purchase_id,customer_id,purchase_date,amount,product
1,1,2024-01-05,100.00,widget
2,1,2024-02-10,50.00,widget
3,2,2024-02-01,200.00,gadget
4,3,2024-02-15,25.50,widget
5,99,2024-02-20,10.00,gadget
`

func testContext(t *testing.T, dataDir string) (*Context, *fakeStore, *fakeDocs) {
	t.Helper()
	store := newFakeStore()
	docs := newFakeDocs()
	cfg := &config.Config{
		Buckets: config.Buckets{
			Sources: "sources",
			Raw:     "raw",
			Cleaned: "cleaned",
			Derived: "derived",
		},
		DataDir:            dataDir,
		ChurnThresholdDays: 60,
		ModelSeed:          42,
	}
	return &Context{
		Logger: zaptest.NewLogger(t),
		Cfg:    cfg,
		Store:  store,
		Docs:   docs,
	}, store, docs
}

func writeSources(t *testing.T, dir, customers, purchases string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectCustomersCSV), []byte(customers), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectPurchasesCSV), []byte(purchases), 0o644))
}

func TestFullPipelineRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeSources(t, dir, customersCSV, purchasesCSV)
	ac, store, docs := testContext(t, dir)

	ingest, err := ac.Ingest(ctx, types.IngestInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, ingest.CustomerRows)
	assert.Equal(t, 5, ingest.PurchaseRows)
	assert.Contains(t, store.objects, "sources/customers.csv")
	assert.Contains(t, store.objects, "raw/purchases.csv")

	cleaned, err := ac.Clean(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 4, cleaned.Customers)
	// the purchase referencing customer 99 is an orphan
	assert.Equal(t, 4, cleaned.Purchases)
	assert.Equal(t, 1, cleaned.Orphans)

	agg, err := ac.Aggregate(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Countries)
	assert.Equal(t, 2, agg.Products)
	assert.Equal(t, 4, agg.Customers)

	score, err := ac.BuildAndScore(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 4, score.Customers)
	// four qualifying rows is below the training minimum
	assert.Equal(t, models.NoteInsufficientData, score.ValueNote)

	pub, err := ac.Publish(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, len(models.PublishSet), pub.Collections)

	// every model contributes exactly one metrics row
	require.Len(t, docs.collections[models.CollectionModelMetrics], 3)
	assert.Len(t, docs.collections[models.CollectionCustomerMetrics], 4)
	assert.Len(t, docs.collections[models.CollectionChurnPredictions], 4)
}

func TestIngestAbortsBeforeAnyWrite(t *testing.T) {
	dir := t.TempDir()
	// duplicate customer_id violates uniqueness
	bad := `customer_id,name,email,signup_date,country
1,alice,alice@example.com,2023-01-01,france
1,bob,bob@example.com,2023-06-01,france
`
	writeSources(t, dir, bad, purchasesCSV)
	ac, store, _ := testContext(t, dir)

	_, err := ac.Ingest(context.Background(), types.IngestInput{})
	require.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestIngestMissingFile(t *testing.T) {
	ac, _, _ := testContext(t, t.TempDir())
	_, err := ac.Ingest(context.Background(), types.IngestInput{})
	require.Error(t, err)
}

func TestPublishEmptySnapshotEmptiesCollection(t *testing.T) {
	ctx := context.Background()
	ac, store, docs := testContext(t, t.TempDir())

	// stale generation left over from a previous run
	docs.collections[models.CollectionCustomerSegments] = []map[string]any{{"customer_id": int64(1)}}

	derived := ac.Cfg.Buckets.Derived
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectRevenueByCountry, models.CountryRevenueCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectRevenueByProduct, models.ProductRevenueCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectMonthlyRevenue, models.MonthlyRevenueCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectCustomerMetrics, models.CustomerMetricsCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectCustomerSegments, models.CustomerSegmentCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectChurnPredictions, models.ChurnPredictionCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectValuePredictions, models.ValuePredictionCodec, nil))
	require.NoError(t, putOCF(ctx, store, derived, models.ObjectModelMetrics, models.ModelMetricsCodec, nil))

	out, err := ac.Publish(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, len(models.PublishSet), out.Collections)
	assert.Equal(t, 0, out.Documents)
	assert.Empty(t, docs.collections[models.CollectionCustomerSegments])
}

func TestPipelineIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeSources(t, dir, customersCSV, purchasesCSV)

	run := func() map[string][]map[string]any {
		ac, _, docs := testContext(t, dir)
		_, err := ac.Ingest(ctx, types.IngestInput{})
		require.NoError(t, err)
		_, err = ac.Clean(ctx, struct{}{})
		require.NoError(t, err)
		_, err = ac.Aggregate(ctx, struct{}{})
		require.NoError(t, err)
		_, err = ac.BuildAndScore(ctx, struct{}{})
		require.NoError(t, err)
		_, err = ac.Publish(ctx, struct{}{})
		require.NoError(t, err)
		return docs.collections
	}

	assert.Equal(t, run(), run())
}
