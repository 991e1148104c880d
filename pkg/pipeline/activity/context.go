package activity

import (
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/storage"
)

// Context carries the shared dependencies of every pipeline stage. The same
// instance backs both the Temporal worker and the standalone runner.
type Context struct {
	Logger *zap.Logger
	Cfg    *config.Config
	Store  storage.ObjectStore
	Docs   docstore.Store
}
