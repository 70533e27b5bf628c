package completion

import "context"

// Profile selects which configured model a request targets. The description
// profile points at the strongest model; summary and sentence run on a
// cheaper, faster one.
type Profile string

const (
	ProfileDescription Profile = "description"
	ProfileSummary     Profile = "summary"
	ProfileSentence    Profile = "sentence"
	ProfileFAQ         Profile = "faq"
)

// Request is one completion-service call: a persona/style directive, the
// structured prompt built from whitelisted fields, the target model profile
// and an output size cap. The per-call timeout lives in the client.
type Request struct {
	System    string
	Prompt    string
	Profile   Profile
	MaxTokens int
}

// Client is the contract for any completion backend.
type Client interface {
	// Complete sends one request and returns the raw text response.
	Complete(ctx context.Context, req Request) (string, error)
}

// StaticClient returns a fixed response for every request. Used in dry runs
// and tests.
type StaticClient struct {
	Text string
}

var _ Client = &StaticClient{}

func (s *StaticClient) Complete(ctx context.Context, req Request) (string, error) {
	return s.Text, nil
}

// FailingClient rejects every request with a fixed error. Stands in when no
// backend is configured, and doubles as a test fixture.
type FailingClient struct {
	Err error
}

var _ Client = &FailingClient{}

func (f *FailingClient) Complete(ctx context.Context, req Request) (string, error) {
	return "", f.Err
}
