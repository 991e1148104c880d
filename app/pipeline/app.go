package pipeline

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/logging"
	"github.com/brightlake/brightlake/pkg/pipeline"
	"github.com/brightlake/brightlake/pkg/pipeline/activity"
	"github.com/brightlake/brightlake/pkg/pipeline/types"
	"github.com/brightlake/brightlake/pkg/runlock"
	"github.com/brightlake/brightlake/pkg/storage"
)

type App struct {
	Logger *zap.Logger
	Cfg    *config.Config
	Runner *pipeline.Runner
	Lock   *runlock.Lock
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

	var lock *runlock.Lock
	if cfg.RedisEnabled {
		lock, err = runlock.New(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Run lock unavailable, continuing without it", zap.Error(err))
			lock = nil
		}
	}

	activities := &activity.Context{
		Logger: logger,
		Cfg:    cfg,
		Store:  store,
		Docs:   docs,
	}

	return &App{
		Logger: logger,
		Cfg:    cfg,
		Runner: pipeline.NewRunner(logger, activities),
		Lock:   lock,
	}
}

// Start runs the pipeline once, or on the configured cron schedule until the
// context is canceled.
func (a *App) Start(ctx context.Context) {
	if a.Cfg.CronSpec == "" {
		if err := a.runOnce(ctx); err != nil {
			a.Logger.Fatal("Pipeline run failed", zap.Error(err))
		}
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(a.Cfg.CronSpec, func() {
		if err := a.runOnce(ctx); err != nil {
			a.Logger.Error("Scheduled pipeline run failed", zap.Error(err))
		}
	}); err != nil {
		a.Logger.Fatal("Invalid cron spec", zap.String("spec", a.Cfg.CronSpec), zap.Error(err))
	}

	a.Logger.Info("Pipeline scheduler started", zap.String("spec", a.Cfg.CronSpec))
	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	a.Logger.Info("Pipeline scheduler stopped")
}

func (a *App) runOnce(ctx context.Context) error {
	if a.Lock != nil {
		ok, err := a.Lock.Acquire(ctx)
		if err != nil {
			return err
		}
		if !ok {
			// another run holds the lock; skip this trigger
			return nil
		}
		defer func() {
			if err := a.Lock.Release(ctx); err != nil {
				a.Logger.Warn("Unable to release run lock", zap.Error(err))
			}
		}()
	}

	_, err := a.Runner.Run(ctx, types.IngestInput{})
	return err
}
