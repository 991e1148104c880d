package worker

import (
	"context"
	"time"

	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/logging"
	"github.com/brightlake/brightlake/pkg/pipeline/activity"
	"github.com/brightlake/brightlake/pkg/pipeline/workflow"
	"github.com/brightlake/brightlake/pkg/storage"
	"github.com/brightlake/brightlake/pkg/temporal"
)

type App struct {
	Worker         worker.Worker
	TemporalClient *temporal.Client
	Logger         *zap.Logger
}

// Start starts the worker and blocks until the context is canceled.
func (a *App) Start(ctx context.Context) {
	if err := a.Worker.Start(); err != nil {
		a.Logger.Fatal("Unable to start worker", zap.Error(err))
	}
	<-ctx.Done()
	a.Stop()
}

// Stop stops the worker.
func (a *App) Stop() {
	a.Worker.Stop()
	a.TemporalClient.Close()
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("Worker stopped")
}

// Initialize initializes the application.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	cfg := config.Load()

	store, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatal("Unable to connect to the object store", zap.Error(err))
	}
	docs, err := docstore.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Unable to connect to the document store", zap.Error(err))
	}

	temporalClient, err := temporal.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}

	activityContext := &activity.Context{
		Logger: logger,
		Cfg:    cfg,
		Store:  store,
		Docs:   docs,
	}
	workflowContext := workflow.Context{
		ActivityContext: activityContext,
	}

	wkr := worker.New(temporalClient.TClient, workflow.TaskQueue, worker.Options{
		WorkerStopTimeout: 1 * time.Minute,
	})

	// Register the workflow
	wkr.RegisterWorkflow(workflowContext.RunPipelineWorkflow)
	// Register all the activities
	wkr.RegisterActivity(activityContext.Ingest)
	wkr.RegisterActivity(activityContext.Clean)
	wkr.RegisterActivity(activityContext.Aggregate)
	wkr.RegisterActivity(activityContext.BuildAndScore)
	wkr.RegisterActivity(activityContext.Publish)

	return &App{
		Worker:         wkr,
		TemporalClient: temporalClient,
		Logger:         logger,
	}
}
