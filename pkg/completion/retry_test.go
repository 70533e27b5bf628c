package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	outcome := fastPolicy(3).Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", ErrUnavailable
		}
		return "recovered", nil
	})

	require.NoError(t, outcome.Err)
	assert.Equal(t, "recovered", outcome.Text)
	// Two failures, then success on the third call.
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	outcome := fastPolicy(3).Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", ErrRateLimited
	})

	require.Error(t, outcome.Err)
	assert.ErrorIs(t, outcome.Err, ErrRateLimited)
	// MaxRetries=3 allows at most 4 calls in total.
	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 4, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	outcome := fastPolicy(5).Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", ErrAuth
	})

	assert.ErrorIs(t, outcome.Err, ErrAuth)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{MaxRetries: 10, BaseDelay: time.Hour, MaxDelay: time.Hour}

	done := make(chan Outcome, 1)
	go func() {
		done <- policy.Do(ctx, func(ctx context.Context) (string, error) {
			return "", ErrUnavailable
		})
	}()
	cancel()

	select {
	case outcome := <-done:
		assert.ErrorIs(t, outcome.Err, context.Canceled)
		assert.Equal(t, 1, outcome.Attempts)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestShouldRetry(t *testing.T) {
	policy := fastPolicy(2)

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"transient with retries left", ErrTimeout, 1, true},
		{"transient at last allowed attempt", ErrTimeout, 2, true},
		{"transient after retries exhausted", ErrTimeout, 3, false},
		{"permanent never retries", ErrInvalidRequest, 1, false},
		{"nil error never retries", nil, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldRetry(tt.err, tt.attempt))
		})
	}
}

func TestDelayForGrowsAndCaps(t *testing.T) {
	policy := Policy{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, policy.DelayFor(1))
	assert.Equal(t, 200*time.Millisecond, policy.DelayFor(2))
	assert.Equal(t, 300*time.Millisecond, policy.DelayFor(3))
	assert.Equal(t, 300*time.Millisecond, policy.DelayFor(8))
}

func TestTransientClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", ErrTimeout, true},
		{"rate limited", ErrRateLimited, true},
		{"unavailable", ErrUnavailable, true},
		{"malformed response", ErrMalformedResponse, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped transient", errors.Join(errors.New("call failed"), ErrUnavailable), true},
		{"auth", ErrAuth, false},
		{"invalid request", ErrInvalidRequest, false},
		{"arbitrary", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transient(tt.err))
		})
	}
}
