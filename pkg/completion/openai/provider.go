package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"api-page-gen/pkg/completion"
)

// Config carries everything the provider needs; the API key is required and
// checked at construction so a missing credential fails the run up front.
type Config struct {
	BaseURL        string
	APIKey         string
	Organization   string
	Models         map[completion.Profile]string
	TimeoutSeconds int
}

// Provider talks to an OpenAI-style chat completions endpoint.
type Provider struct {
	BaseURL      string
	APIKey       string
	Organization string
	Models       map[completion.Profile]string
	Client       *http.Client
}

// Ensure Provider implements the completion contract
var _ completion.Client = &Provider{}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion service: %w: missing API key", completion.ErrAuth)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		BaseURL:      baseURL,
		APIKey:       cfg.APIKey,
		Organization: cfg.Organization,
		Models:       cfg.Models,
		Client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// --- Request/Response structs (internal to this package) ---

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface implementation ---

func (p *Provider) Complete(ctx context.Context, req completion.Request) (string, error) {
	model, ok := p.Models[req.Profile]
	if !ok || model == "" {
		return "", fmt.Errorf("%w: no model configured for profile %q", completion.ErrInvalidRequest, req.Profile)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	if p.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", p.Organization)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", completion.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", completion.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if err := classifyStatus(resp.StatusCode, bodyBytes); err != nil {
		return "", err
	}

	var decoded chatResponse
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", completion.ErrMalformedResponse, err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices in response", completion.ErrMalformedResponse)
	}
	return decoded.Choices[0].Message.Content, nil
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", completion.ErrRateLimited, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", completion.ErrAuth, status)
	case status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", completion.ErrTimeout, status)
	case status >= 500:
		return fmt.Errorf("%w: status %d", completion.ErrUnavailable, status)
	default:
		return fmt.Errorf("%w: status %d, body: %s", completion.ErrInvalidRequest, status, truncate(body, 200))
	}
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	var t timeouter
	return errors.As(err, &t) && t.Timeout()
}

func truncate(body []byte, max int) string {
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
