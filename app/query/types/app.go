package types

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/docstore"
)

type App struct {
	// Docs reads the published analytics collections.
	Docs docstore.Reader
	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server *http.Server
}

// Start starts the application.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.Server.Shutdown(shutdownCtx)
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("Query service stopped")
}
