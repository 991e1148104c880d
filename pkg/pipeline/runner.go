package pipeline

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/pipeline/activity"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/retry"
	"github.com/brightlake/brightlake/pkg/storage"
)

// Runner executes the pipeline stages in-process, without Temporal. Stages
// run sequentially except aggregation and scoring, which only share the
// cleaned snapshots and run on a worker group. Every stage touches the
// object store, so each one is wrapped with the transient-retry schedule.
type Runner struct {
	Logger     *zap.Logger
	Activities *activity.Context
	Retry      retry.Config
}

// NewRunner builds a runner with the storage-aware retry classifier.
func NewRunner(logger *zap.Logger, activities *activity.Context) *Runner {
	cfg := retry.DefaultConfig()
	if len(activities.Cfg.RetrySchedule) > 0 {
		cfg.Schedule = activities.Cfg.RetrySchedule
	}
	cfg.RetryIf = storage.IsTransient
	return &Runner{
		Logger:     logger,
		Activities: activities,
		Retry:      cfg,
	}
}

// Run executes one full batch run and returns its summary.
func (r *Runner) Run(ctx context.Context, in types.IngestInput) (*types.RunOutput, error) {
	started := time.Now()
	var out types.RunOutput

	if err := r.stage(ctx, "ingest", func() error {
		result, err := r.Activities.Ingest(ctx, in)
		if err == nil {
			out.Ingest = *result
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, "clean", func() error {
		result, err := r.Activities.Clean(ctx, struct{}{})
		if err == nil {
			out.Clean = *result
		}
		return err
	}); err != nil {
		return nil, err
	}

	pool := pond.NewPool(2)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)

	group.SubmitErr(func() error {
		return r.stage(ctx, "aggregate", func() error {
			result, err := r.Activities.Aggregate(ctx, struct{}{})
			if err == nil {
				out.Aggregate = *result
			}
			return err
		})
	})
	group.SubmitErr(func() error {
		return r.stage(ctx, "score", func() error {
			result, err := r.Activities.BuildAndScore(ctx, struct{}{})
			if err == nil {
				out.Score = *result
			}
			return err
		})
	})
	// any group failure, including a stop triggered by a sibling stage,
	// must abort the run before publish
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, "publish", func() error {
		result, err := r.Activities.Publish(ctx, struct{}{})
		if err == nil {
			out.Publish = *result
		}
		return err
	}); err != nil {
		return nil, err
	}

	r.Logger.Info("Pipeline run complete",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("customers", out.Clean.Customers),
		zap.Int("purchases", out.Clean.Purchases),
		zap.Int("published_collections", out.Publish.Collections),
		zap.Int("published_documents", out.Publish.Documents))
	return &out, nil
}

func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	return retry.WithSchedule(ctx, r.Retry, r.Logger, name, fn)
}
