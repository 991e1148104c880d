package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fastConfig() Config {
	return Config{Schedule: []time.Duration{time.Millisecond, time.Millisecond}}
}

func TestWithScheduleSucceedsAfterTransientFailures(t *testing.T) {
	logger := zaptest.NewLogger(t)

	calls := 0
	err := WithSchedule(context.Background(), fastConfig(), logger, "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithScheduleExhaustsAttempts(t *testing.T) {
	logger := zaptest.NewLogger(t)

	calls := 0
	err := WithSchedule(context.Background(), fastConfig(), logger, "broken", func() error {
		calls++
		return errors.New("still broken")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWithScheduleStopsOnNonRetryableError(t *testing.T) {
	logger := zaptest.NewLogger(t)
	permanent := errors.New("permanent")

	cfg := fastConfig()
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := WithSchedule(context.Background(), cfg, logger, "fatal", func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithScheduleHonorsCancellation(t *testing.T) {
	logger := zaptest.NewLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{Schedule: []time.Duration{time.Minute}}

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- WithSchedule(ctx, cfg, logger, "slow", func() error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestDefaultConfigSchedule(t *testing.T) {
	cfg := DefaultConfig()
	require.Len(t, cfg.Schedule, 3)
	assert.Equal(t, 2*time.Second, cfg.Schedule[0])
	assert.Equal(t, 10*time.Second, cfg.Schedule[1])
	assert.Equal(t, 30*time.Second, cfg.Schedule[2])
}
