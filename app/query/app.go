package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/app/query/types"
	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/logging"
)

// Initialize initializes the application.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	cfg := config.Load()

	docs, err := docstore.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Unable to connect to the document store", zap.Error(err))
	}

	return &types.App{
		Docs:   docs,
		Logger: logger,
	}
}
