package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igresolve/pkg/errors"
	"igresolve/pkg/logger"
)

func testConfig(maxAttempts int, backoff BackoffStrategy) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "connection reset")
		}
		return nil
	}, testConfig(5, &ConstantBackoff{Delay: time.Millisecond}))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeServerError, "boom")
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts")
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypePrivateOrUnavailable, "content is private")
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cfg := testConfig(0, &ConstantBackoff{Delay: time.Second})
	cfg.Context = ctx

	err := Do(func() error {
		return errs.New(errs.ErrorTypeNetwork, "down")
	}, cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errs.New(errs.ErrorTypeNetwork, "flaky")
		}
		return "media", nil
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}))

	require.NoError(t, err)
	assert.Equal(t, "media", result)
	assert.Equal(t, 2, calls)
}

func TestExponentialBackoff(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
	}

	assert.Equal(t, time.Duration(0), eb.NextDelay(0))
	assert.Equal(t, time.Second, eb.NextDelay(1))
	assert.Equal(t, 2*time.Second, eb.NextDelay(2))
	assert.Equal(t, 4*time.Second, eb.NextDelay(3))
	// Capped at MaxDelay
	assert.Equal(t, 10*time.Second, eb.NextDelay(10))
}

func TestRangeBackoff(t *testing.T) {
	rb := NewRangeBackoff(2*time.Second, 7*time.Second)

	for i := 1; i <= 50; i++ {
		delay := rb.NextDelay(i)
		assert.GreaterOrEqual(t, delay, 2*time.Second)
		assert.LessOrEqual(t, delay, 7*time.Second)
	}

	assert.Equal(t, time.Duration(0), rb.NextDelay(0))
}

func TestRangeBackoffDegenerateRange(t *testing.T) {
	rb := NewRangeBackoff(5*time.Second, time.Second)
	assert.Equal(t, 5*time.Second, rb.NextDelay(1))
}

func TestWaitRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitZeroDelay(t *testing.T) {
	err := Wait(context.Background(), 0)
	assert.NoError(t, err)
}
