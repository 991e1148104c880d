package temporal

import (
	"context"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
)

// PipelineWorkflowID identifies the single recurring batch run. Starting a
// run while one is in flight fails with an already-started error, which
// doubles as a cheap run lock on the Temporal path.
const PipelineWorkflowID = "analytics-pipeline-run"

// Client wraps the Temporal SDK client with the names this service uses.
type Client struct {
	TClient   client.Client
	Namespace string
}

// NewClient connects to Temporal and verifies the connection is healthy.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	logger.Info("Connecting to Temporal",
		zap.String("host", cfg.TemporalHostPort),
		zap.String("namespace", cfg.TemporalNamespace))

	tClient, err := client.DialContext(ctx, client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		Logger:    NewZapAdapter(logger),
	})
	if err != nil {
		return nil, err
	}

	if _, err = tClient.CheckHealth(ctx, nil); err != nil {
		return nil, err
	}
	return &Client{TClient: tClient, Namespace: cfg.TemporalNamespace}, nil
}

// Close shuts down the underlying connection.
func (c *Client) Close() {
	c.TClient.Close()
}
