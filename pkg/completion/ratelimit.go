package completion

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedClient serializes outbound calls behind a shared token bucket.
// Workers may outnumber the service's effective rate limit; the gate holds
// them back regardless of pool size.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited wraps a client with a shared requests-per-second gate. The
// same wrapped client must be handed to every worker so the limit is global.
func NewRateLimited(inner Client, perSecond float64, burst int) Client {
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (c *rateLimitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, req)
}
