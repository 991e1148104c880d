package runlock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightlake/brightlake/pkg/config"
)

const (
	lockKey = "brightlake:pipeline:run"
	lockTTL = 2 * time.Hour
)

// Lock is a best-effort single-runner guard backed by Redis SET NX. It stops
// overlapping scheduled runs from racing each other on the shared buckets;
// it is not a correctness mechanism, a crashed holder simply expires.
type Lock struct {
	client *redis.Client
	logger *zap.Logger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Lock, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Run lock ready", zap.String("addr", cfg.RedisAddr), zap.String("key", lockKey))
	return &Lock{client: rdb, logger: logger}, nil
}

// Acquire attempts to take the lock. It returns false when another run
// currently holds it.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, time.Now().UTC().Format(time.RFC3339), lockTTL).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		l.logger.Warn("Pipeline run lock already held", zap.String("key", lockKey))
	}
	return ok, nil
}

// Release frees the lock after a run.
func (l *Lock) Release(ctx context.Context) error {
	return l.client.Del(ctx, lockKey).Err()
}

// Close releases the Redis connection.
func (l *Lock) Close() error {
	return l.client.Close()
}
