package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls int
	text  string
	err   error
}

func (c *countingClient) Complete(ctx context.Context, req Request) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

func TestCachingClientMemoizesSuccess(t *testing.T) {
	inner := &countingClient{text: "cached answer"}
	client := NewCaching(inner, time.Minute)
	req := Request{System: "persona", Prompt: "describe X", Profile: ProfileDescription}

	first, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "cached answer", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingClientKeysOnRequestContent(t *testing.T) {
	inner := &countingClient{text: "answer"}
	client := NewCaching(inner, time.Minute)

	_, _ = client.Complete(context.Background(), Request{Prompt: "describe X", Profile: ProfileDescription})
	_, _ = client.Complete(context.Background(), Request{Prompt: "describe Y", Profile: ProfileDescription})
	_, _ = client.Complete(context.Background(), Request{Prompt: "describe X", Profile: ProfileSummary})

	assert.Equal(t, 3, inner.calls)
}

func TestCachingClientNeverCachesFailures(t *testing.T) {
	inner := &countingClient{err: ErrUnavailable}
	client := NewCaching(inner, time.Minute)
	req := Request{Prompt: "describe X", Profile: ProfileDescription}

	_, err := client.Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = client.Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnavailable)

	// Both attempts reached the backend.
	assert.Equal(t, 2, inner.calls)

	// A later success is cached normally.
	inner.err = nil
	inner.text = "recovered"
	_, err = client.Complete(context.Background(), req)
	require.NoError(t, err)
	_, _ = client.Complete(context.Background(), req)
	assert.Equal(t, 3, inner.calls)
}

func TestRateLimitedClientRespectsContext(t *testing.T) {
	inner := &countingClient{text: "ok"}
	client := NewRateLimited(inner, 0.0001, 1)

	// First call consumes the burst token.
	_, err := client.Complete(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)

	// Second call would wait hours for a token; the deadline interrupts it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, Request{Prompt: "b"})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
