package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		Enabled:       true,
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestExecuteWithRetryRecoversFromTransientError(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	access := &mysqlDriver.MySQLError{Number: 1045, Message: "Access denied"}
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return access
	})
	require.ErrorIs(t, err, access)
	require.Equal(t, 1, calls)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	calls := 0
	_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	require.Equal(t, 1, calls)
}

func TestExecuteWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableError(t *testing.T) {
	cfg := fastConfig()
	require.False(t, IsRetryableError(nil, cfg))
	require.True(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1040}, cfg))
	require.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1062}, cfg))
	require.False(t, IsRetryableError(context.DeadlineExceeded, cfg))

	cfg.RetryPredicate = func(err error) bool { return err.Error() == "custom" }
	require.True(t, IsRetryableError(errors.New("custom"), cfg))
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := fastConfig()
	require.Zero(t, ExponentialBackoffWithJitter(0, cfg))
	require.Equal(t, time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	require.Equal(t, 2*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	require.Equal(t, 5*time.Millisecond, ExponentialBackoffWithJitter(10, cfg))
}
