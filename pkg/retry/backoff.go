package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config defines retry behavior. Schedule holds the delay before each
// retry, so len(Schedule)+1 is the total number of attempts.
type Config struct {
	Schedule []time.Duration
	// RetryIf decides whether an error is worth another attempt. A nil
	// RetryIf retries everything.
	RetryIf func(error) bool
}

// DefaultConfig returns the storage retry settings used by the pipeline:
// three attempts with increasing delays.
func DefaultConfig() Config {
	return Config{
		Schedule: []time.Duration{2 * time.Second, 10 * time.Second, 30 * time.Second},
	}
}

// WithSchedule executes fn, retrying on the configured schedule until fn
// succeeds, the schedule is exhausted, the error is classified as not
// retryable, or ctx is canceled.
func WithSchedule(ctx context.Context, cfg Config, logger *zap.Logger, operation string, fn func() error) error {
	attempts := len(cfg.Schedule) + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		default:
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after retries",
					zap.String("operation", operation),
					zap.Int("attempts", attempt))
			}
			return nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return lastErr
		}

		if attempt == attempts {
			return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
		}

		delay := cfg.Schedule[attempt-1]
		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("retry_in", delay),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return lastErr
}
