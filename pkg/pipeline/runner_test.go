package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/activity"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/storage"
)

type flakyStore struct {
	mu            sync.Mutex
	objects       map[string][]byte
	failPuts      int
	puts          int
	failGetObject string
}

func (f *flakyStore) Put(_ context.Context, bucket, object string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPuts > 0 {
		f.failPuts--
		return "", &storage.TransientError{Op: "put " + object, Err: context.DeadlineExceeded}
	}
	f.objects[bucket+"/"+object] = data
	return object, nil
}

func (f *flakyStore) Get(_ context.Context, bucket, object string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGetObject != "" && object == f.failGetObject {
		return nil, &storage.PermanentError{Op: "get " + object, Err: os.ErrNotExist}
	}
	data, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, &storage.PermanentError{Op: "get " + object, Err: os.ErrNotExist}
	}
	return data, nil
}

type memDocs struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
}

func (m *memDocs) Replace(_ context.Context, collection string, docs []map[string]any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = docs
	return len(docs), nil
}

const customersCSV = `customer_id,name,email,signup_date,country
1,alice adams,alice@example.com,2023-01-01,france
2,bob brown,bob@example.com,2023-06-01,japan
`

const purchasesCSV = `purchase_id,customer_id,purchase_date,amount,product
1,1,2024-01-05,100.00,widget
2,2,2024-02-10,50.00,gadget
`

func newTestRunner(t *testing.T, store *flakyStore) (*Runner, *memDocs) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectCustomersCSV), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectPurchasesCSV), []byte(purchasesCSV), 0o644))

	docs := &memDocs{collections: make(map[string][]map[string]any)}
	cfg := &config.Config{
		Buckets:            config.Buckets{Sources: "sources", Raw: "raw", Cleaned: "cleaned", Derived: "derived"},
		DataDir:            dir,
		ChurnThresholdDays: 60,
		ModelSeed:          42,
		RetrySchedule:      []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
	}
	runner := NewRunner(zaptest.NewLogger(t), &activity.Context{
		Logger: zaptest.NewLogger(t),
		Cfg:    cfg,
		Store:  store,
		Docs:   docs,
	})
	return runner, docs
}

func TestRunnerCompletesFullRun(t *testing.T) {
	store := &flakyStore{objects: make(map[string][]byte)}
	runner, docs := newTestRunner(t, store)

	out, err := runner.Run(context.Background(), types.IngestInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Clean.Customers)
	assert.Equal(t, len(models.PublishSet), out.Publish.Collections)
	assert.Len(t, docs.collections[models.CollectionModelMetrics], 3)
}

func TestRunnerRetriesTransientStorageFailures(t *testing.T) {
	store := &flakyStore{objects: make(map[string][]byte), failPuts: 2}
	runner, _ := newTestRunner(t, store)

	// the first ingest attempts fail mid-write, the retry re-runs the stage
	out, err := runner.Run(context.Background(), types.IngestInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Ingest.CustomerRows)
}

// A failure in either of the parallel stages must abort the run before the
// publish stage, even when the sibling stage was stopped rather than failed.
func TestRunnerAbortsBeforePublishWhenParallelStageFails(t *testing.T) {
	store := &flakyStore{objects: make(map[string][]byte), failGetObject: models.ObjectPurchases}
	runner, docs := newTestRunner(t, store)

	_, err := runner.Run(context.Background(), types.IngestInput{})
	require.Error(t, err)
	assert.Empty(t, docs.collections)
}

func TestRunnerDoesNotRetryPermanentFailures(t *testing.T) {
	store := &flakyStore{objects: make(map[string][]byte)}
	runner, _ := newTestRunner(t, store)

	// empty the data dir so ingest fails on a missing file, which is not
	// a transient storage error
	require.NoError(t, os.Remove(filepath.Join(runner.Activities.Cfg.DataDir, models.ObjectCustomersCSV)))

	_, err := runner.Run(context.Background(), types.IngestInput{})
	require.Error(t, err)
	assert.Equal(t, 0, store.puts)
}
