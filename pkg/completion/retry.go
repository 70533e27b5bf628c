package completion

import (
	"context"
	"math/rand"
	"time"
)

// Policy is the shared backoff policy for every outbound completion call:
// description, summary, sentence and FAQ generation all run through the same
// implementation. An attempt counts the calls already made, so with
// MaxRetries=3 a request is tried at most 4 times.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// JitterFrac widens each delay by a random factor in [1-j, 1+j].
	JitterFrac float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		JitterFrac: 0.2,
	}
}

// ShouldRetry decides whether another attempt follows after `attempt` calls
// have failed. Permanent errors never retry.
func (p Policy) ShouldRetry(err error, attempt int) bool {
	if !Transient(err) {
		return false
	}
	return attempt <= p.MaxRetries
}

// DelayFor returns the backoff before the attempt following `attempt`
// failures: exponential from BaseDelay, capped at MaxDelay, jittered.
func (p Policy) DelayFor(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.JitterFrac > 0 {
		spread := 1 - p.JitterFrac + 2*p.JitterFrac*rand.Float64()
		delay = time.Duration(float64(delay) * spread)
	}
	return delay
}

// Outcome is the result of a retried call, with the attempt count recorded
// for audit and tests.
type Outcome struct {
	Text     string
	Attempts int
	Err      error
}

// Do runs the call under the policy. It stops early on permanent errors,
// context cancellation, or success; otherwise it backs off and retries until
// MaxRetries is exhausted.
func (p Policy) Do(ctx context.Context, call func(context.Context) (string, error)) Outcome {
	var lastErr error
	attempt := 0
	for {
		attempt++
		text, err := call(ctx)
		if err == nil {
			return Outcome{Text: text, Attempts: attempt}
		}
		lastErr = err

		if !p.ShouldRetry(err, attempt) {
			return Outcome{Attempts: attempt, Err: lastErr}
		}
		select {
		case <-ctx.Done():
			return Outcome{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(p.DelayFor(attempt)):
		}
	}
}
