package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"api-page-gen/pkg/completion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewProvider(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Models: map[completion.Profile]string{
			completion.ProfileDescription: "gpt-4o",
			completion.ProfileSummary:     "gpt-4o-mini",
		},
	})
	require.NoError(t, err)
	return provider
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, completion.ErrAuth)
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var captured chatRequest
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "generated text"}},
			},
		})
	})

	text, err := provider.Complete(context.Background(), completion.Request{
		System:    "persona",
		Prompt:    "describe this",
		Profile:   completion.ProfileDescription,
		MaxTokens: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 500, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "persona", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestCompleteClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, completion.ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, completion.ErrAuth},
		{"forbidden", http.StatusForbidden, completion.ErrAuth},
		{"request timeout", http.StatusRequestTimeout, completion.ErrTimeout},
		{"server error", http.StatusInternalServerError, completion.ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, completion.ErrUnavailable},
		{"bad request", http.StatusBadRequest, completion.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := provider.Complete(context.Background(), completion.Request{
				Prompt:  "x",
				Profile: completion.ProfileDescription,
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	_, err := provider.Complete(context.Background(), completion.Request{
		Prompt:  "x",
		Profile: completion.ProfileDescription,
	})
	assert.ErrorIs(t, err, completion.ErrMalformedResponse)
}

func TestCompleteRejectsUnknownProfile(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := provider.Complete(context.Background(), completion.Request{
		Prompt:  "x",
		Profile: completion.ProfileFAQ,
	})
	assert.ErrorIs(t, err, completion.ErrInvalidRequest)
}
