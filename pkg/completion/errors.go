package completion

import (
	"context"
	"errors"
	"net"
)

// Failure modes surfaced by the completion service. Transient ones are
// retried by the policy; permanent ones fail the attempt immediately.
var (
	ErrTimeout           = errors.New("completion: call timed out")
	ErrRateLimited       = errors.New("completion: rate limited")
	ErrUnavailable       = errors.New("completion: service unavailable")
	ErrMalformedResponse = errors.New("completion: malformed or empty response")
	ErrAuth              = errors.New("completion: authentication failed")
	ErrInvalidRequest    = errors.New("completion: invalid request")
)

// Transient reports whether an error is worth retrying: timeouts, rate
// limits, upstream 5xx and undecodable responses. Authentication and request
// validation failures are permanent.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrMalformedResponse) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
