package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
)

// ObjectStore is the layer-store boundary every pipeline stage talks to.
// Objects are whole-table snapshots; there is no partial or range I/O.
type ObjectStore interface {
	Put(ctx context.Context, bucket, object string, data []byte) (string, error)
	Get(ctx context.Context, bucket, object string) ([]byte, error)
}

// Object names follow the <kind>.<format> convention.
var objectNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-z0-9]+$`)

// Client is a MinIO-backed ObjectStore. Buckets are created lazily on first
// write.
type Client struct {
	Logger *zap.Logger
	mc     *minio.Client
}

var _ ObjectStore = (*Client)(nil)

// New connects to the object store described by cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store: %w", err)
	}
	return &Client{Logger: logger, mc: mc}, nil
}

// ensureBucket creates the bucket if it does not exist yet.
func (c *Client) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return classify("bucket check", err)
	}
	if exists {
		return nil
	}
	if err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		// a concurrent writer may have won the race
		if exists, checkErr := c.mc.BucketExists(ctx, bucket); checkErr == nil && exists {
			return nil
		}
		return classify("bucket create", err)
	}
	c.Logger.Info("Created bucket", zap.String("bucket", bucket))
	return nil
}

// Put writes a whole snapshot object and returns its name.
func (c *Client) Put(ctx context.Context, bucket, object string, data []byte) (string, error) {
	if !objectNameRe.MatchString(object) {
		return "", &PermanentError{Op: "put", Err: fmt.Errorf("malformed object name %q", object)}
	}

	if err := c.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	_, err := c.mc.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", classify("put", err)
	}

	c.Logger.Debug("Wrote object",
		zap.String("bucket", bucket),
		zap.String("object", object),
		zap.Int("bytes", len(data)))
	return object, nil
}

// Get reads a whole snapshot object.
func (c *Client) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	if !objectNameRe.MatchString(object) {
		return nil, &PermanentError{Op: "get", Err: fmt.Errorf("malformed object name %q", object)}
	}

	obj, err := c.mc.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify("get", err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classify("get", err)
	}
	return data, nil
}
