package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/brightlake/brightlake/pkg/pipeline/types"
)

// TaskQueue is the queue both the worker and the schedule client use.
const TaskQueue = "analytics-pipeline"

// RunPipelineWorkflow executes one full batch run. Stages are sequential
// except the aggregate and scoring stages, which only share the cleaned
// snapshots and therefore run as parallel activities.
func (wc *Context) RunPipelineWorkflow(ctx workflow.Context, in types.IngestInput) (*types.RunOutput, error) {
	retry := &temporal.RetryPolicy{
		InitialInterval:    2 * time.Second,
		BackoffCoefficient: 5,
		MaximumInterval:    30 * time.Second,
		MaximumAttempts:    3,
		// storage errors classified as permanent must not consume attempts
		NonRetryableErrorTypes: []string{"PermanentError"},
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy:         retry,
		TaskQueue:           TaskQueue,
	})

	var out types.RunOutput

	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.Ingest, in).Get(ctx, &out.Ingest); err != nil {
		return nil, err
	}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.Clean, struct{}{}).Get(ctx, &out.Clean); err != nil {
		return nil, err
	}

	aggregateFuture := workflow.ExecuteActivity(ctx, wc.ActivityContext.Aggregate, struct{}{})
	scoreFuture := workflow.ExecuteActivity(ctx, wc.ActivityContext.BuildAndScore, struct{}{})
	if err := aggregateFuture.Get(ctx, &out.Aggregate); err != nil {
		return nil, err
	}
	if err := scoreFuture.Get(ctx, &out.Score); err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.Publish, struct{}{}).Get(ctx, &out.Publish); err != nil {
		return nil, err
	}
	return &out, nil
}
