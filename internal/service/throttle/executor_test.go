package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "ListingPulse/pkg/http"
)

func TestExecutePacesConsecutiveCalls(t *testing.T) {
	const interval = 50 * time.Millisecond
	e := New(interval)

	var stamps []time.Time
	for i := 0; i < 3; i++ {
		_, err := Execute(context.Background(), e, "test", func(ctx context.Context) (int, error) {
			stamps = append(stamps, time.Now())
			return i, nil
		})
		require.NoError(t, err)
	}

	require.Len(t, stamps, 3)
	// Tokens accrue from limiter creation, so measure across the whole batch
	// rather than per gap.
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[0]), 2*interval-10*time.Millisecond)
}

func TestExecuteRetriesOnlyRateLimit(t *testing.T) {
	e := New(time.Millisecond, WithMaxRetries(3), WithBackoffBase(time.Millisecond))

	calls := 0
	v, err := Execute(context.Background(), e, "test", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &xhttp.StatusError{Code: 429}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestExecuteDoesNotRetryOtherStatuses(t *testing.T) {
	e := New(time.Millisecond, WithMaxRetries(3), WithBackoffBase(time.Millisecond))

	calls := 0
	_, err := Execute(context.Background(), e, "test", func(ctx context.Context) (string, error) {
		calls++
		return "", &xhttp.StatusError{Code: 500}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var se *xhttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.Code)
}

func TestExecuteExhaustsRetryBudget(t *testing.T) {
	e := New(time.Millisecond, WithMaxRetries(2), WithBackoffBase(time.Millisecond))

	calls := 0
	_, err := Execute(context.Background(), e, "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, &xhttp.StatusError{Code: 429}
	})

	require.Error(t, err)
	assert.True(t, xhttp.IsTooManyRequests(err))
	assert.Equal(t, 3, calls, "one initial call plus two retries")
}

func TestExecuteHonorsContext(t *testing.T) {
	e := New(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, e, "test", func(ctx context.Context) (int, error) {
		t.Fatal("op should not run after cancellation")
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
