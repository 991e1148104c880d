package workflow

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap/zaptest"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/pipeline/activity"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/storage"
)

type wfFakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *wfFakeStore) Put(_ context.Context, bucket, object string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+object] = data
	return object, nil
}

func (f *wfFakeStore) Get(_ context.Context, bucket, object string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, &storage.PermanentError{Op: "get " + object, Err: os.ErrNotExist}
	}
	return data, nil
}

// wfMissingObjectStore accepts writes but reports every object as
// permanently missing, counting read attempts.
type wfMissingObjectStore struct {
	mu   sync.Mutex
	gets int
}

func (f *wfMissingObjectStore) Put(_ context.Context, _, object string, _ []byte) (string, error) {
	return object, nil
}

func (f *wfMissingObjectStore) Get(_ context.Context, _, object string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return nil, &storage.PermanentError{Op: "get " + object, Err: os.ErrNotExist}
}

type wfFakeDocs struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
}

func (f *wfFakeDocs) Replace(_ context.Context, collection string, docs []map[string]any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[collection] = docs
	return len(docs), nil
}

const customersCSV = `customer_id,name,email,signup_date,country
1,alice adams,alice@example.com,2023-01-01,france
2,bob brown,bob@example.com,2023-06-01,japan
3,carol clark,carol@example.com,2024-01-01,japan
`

const purchasesCSV = `purchase_id,customer_id,purchase_date,amount,product
1,1,2024-01-05,100.00,widget
2,2,2024-02-10,50.00,gadget
3,3,2024-02-15,25.50,widget
`

func TestRunPipelineWorkflowHappyPath(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectCustomersCSV), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectPurchasesCSV), []byte(purchasesCSV), 0o644))

	docs := &wfFakeDocs{collections: make(map[string][]map[string]any)}
	activityCtx := &activity.Context{
		Logger: zaptest.NewLogger(t),
		Cfg: &config.Config{
			Buckets:            config.Buckets{Sources: "sources", Raw: "raw", Cleaned: "cleaned", Derived: "derived"},
			DataDir:            dir,
			ChurnThresholdDays: 60,
			ModelSeed:          42,
		},
		Store: &wfFakeStore{objects: make(map[string][]byte)},
		Docs:  docs,
	}
	wfCtx := Context{ActivityContext: activityCtx}

	env.RegisterWorkflow(wfCtx.RunPipelineWorkflow)
	env.RegisterActivity(activityCtx.Ingest)
	env.RegisterActivity(activityCtx.Clean)
	env.RegisterActivity(activityCtx.Aggregate)
	env.RegisterActivity(activityCtx.BuildAndScore)
	env.RegisterActivity(activityCtx.Publish)

	env.ExecuteWorkflow(wfCtx.RunPipelineWorkflow, types.IngestInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out types.RunOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, 3, out.Ingest.CustomerRows)
	assert.Equal(t, 3, out.Clean.Customers)
	assert.Equal(t, len(models.PublishSet), out.Publish.Collections)
	assert.Len(t, docs.collections[models.CollectionModelMetrics], 3)
}

// A permanently missing object fails the run on the first attempt; the
// retry policy is reserved for transient storage faults.
func TestRunPipelineWorkflowDoesNotRetryPermanentStoreErrors(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectCustomersCSV), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectPurchasesCSV), []byte(purchasesCSV), 0o644))

	store := &wfMissingObjectStore{}
	activityCtx := &activity.Context{
		Logger: zaptest.NewLogger(t),
		Cfg: &config.Config{
			Buckets: config.Buckets{Sources: "sources", Raw: "raw", Cleaned: "cleaned", Derived: "derived"},
			DataDir: dir,
		},
		Store: store,
		Docs:  &wfFakeDocs{collections: make(map[string][]map[string]any)},
	}
	wfCtx := Context{ActivityContext: activityCtx}

	env.RegisterWorkflow(wfCtx.RunPipelineWorkflow)
	env.RegisterActivity(activityCtx.Ingest)
	env.RegisterActivity(activityCtx.Clean)

	env.ExecuteWorkflow(wfCtx.RunPipelineWorkflow, types.IngestInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 1, store.gets)
}

func TestRunPipelineWorkflowFailsOnBadInput(t *testing.T) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	dir := t.TempDir()
	// negative amount fails validation before any write
	bad := `purchase_id,customer_id,purchase_date,amount,product
1,1,2024-01-05,-5.00,widget
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectCustomersCSV), []byte(customersCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.ObjectPurchasesCSV), []byte(bad), 0o644))

	store := &wfFakeStore{objects: make(map[string][]byte)}
	activityCtx := &activity.Context{
		Logger: zaptest.NewLogger(t),
		Cfg: &config.Config{
			Buckets: config.Buckets{Sources: "sources", Raw: "raw", Cleaned: "cleaned", Derived: "derived"},
			DataDir: dir,
		},
		Store: store,
		Docs:  &wfFakeDocs{collections: make(map[string][]map[string]any)},
	}
	wfCtx := Context{ActivityContext: activityCtx}

	env.RegisterWorkflow(wfCtx.RunPipelineWorkflow)
	env.RegisterActivity(activityCtx.Ingest)

	env.ExecuteWorkflow(wfCtx.RunPipelineWorkflow, types.IngestInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Empty(t, store.objects)
}
