package completion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// cachingClient memoizes successful completions for the configured TTL so a
// re-run over the same records does not re-bill identical prompts. Failures
// are never cached.
type cachingClient struct {
	inner Client
	cache *cache.Cache
}

// NewCaching wraps a client with an in-process TTL cache keyed by the full
// request content.
func NewCaching(inner Client, ttl time.Duration) Client {
	return &cachingClient{
		inner: inner,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *cachingClient) Complete(ctx context.Context, req Request) (string, error) {
	key := requestKey(req)
	if hit, found := c.cache.Get(key); found {
		return hit.(string), nil
	}
	text, err := c.inner.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func requestKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(string(req.Profile)))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return hex.EncodeToString(h.Sum(nil))
}
