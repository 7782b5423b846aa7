package retrylimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond, Multiplier: 2}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, fastConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnFatal(t *testing.T) {
	authErr := errors.New("auth failure")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Fatal(authErr)
	}, fastConfig())
	require.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, calls)
}

func TestDo_MaxAttempts(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 2
	var retries []int
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) }

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("nope")
	}, cfg)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, retries)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, func(context.Context) error { return errors.New("down") }, cfg)
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestAdaptiveLimiter_Bounds(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 4, 1, 0.5)
	assert.Equal(t, 2.0, lim.CurrentLimit())

	lim.Failure()
	assert.Equal(t, 1.0, lim.CurrentLimit())
	lim.Failure()
	assert.Equal(t, 1.0, lim.CurrentLimit(), "never below min")

	lim.Success()
	assert.Equal(t, 1.0, lim.CurrentLimit(), "no speed-up right after a failure")

	lim.lastFailure = time.Time{}
	for range 10 {
		lim.Success()
	}
	assert.Equal(t, 4.0, lim.CurrentLimit(), "never above max")

	require.NoError(t, lim.Wait(context.Background()))
}
