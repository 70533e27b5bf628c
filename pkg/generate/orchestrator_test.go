package generate

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/record"
)

// scriptedClient answers per-profile, with optional scripted failures and a
// panic trigger for the worker-isolation test.
type scriptedClient struct {
	mu         sync.Mutex
	text       map[completion.Profile]string
	failures   map[completion.Profile]int
	failErr    error
	alwaysFail map[completion.Profile]error
	panicOn    string
	calls      int
	prompts    map[completion.Profile][]string
}

func (c *scriptedClient) Complete(_ context.Context, req completion.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.panicOn != "" && strings.Contains(req.Prompt, c.panicOn) {
		panic("synthetic backend fault")
	}
	if c.prompts == nil {
		c.prompts = make(map[completion.Profile][]string)
	}
	c.prompts[req.Profile] = append(c.prompts[req.Profile], req.Prompt)
	if err, ok := c.alwaysFail[req.Profile]; ok {
		return "", err
	}
	if n := c.failures[req.Profile]; n > 0 {
		c.failures[req.Profile] = n - 1
		return "", c.failErr
	}
	return c.text[req.Profile], nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func quickPolicy() completion.Policy {
	return completion.Policy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}
}

func eligibleRecord(id, name string) *record.Record {
	indication := "Prevention of cardiac ischemic complications in PCI."
	return &record.Record{Id: id, Name: &name, Indication: &indication}
}

func TestGenerateSkipsIneligibleRecord(t *testing.T) {
	client := &scriptedClient{}
	orc := NewOrchestrator(client, quickPolicy(), Config{}, nil, nil)

	content := orc.Generate(context.Background(), &record.Record{Id: "DB0001"})

	assert.Equal(t, StatusSkipped, content.Description.Status)
	assert.Equal(t, StatusSkipped, content.Summary.Status)
	assert.Equal(t, StatusSkipped, content.SummarySentence.Status)
	assert.Contains(t, content.Description.Reason, "missing fields:")
	assert.Zero(t, client.callCount(), "gated records must not reach the backend")
}

func TestGenerateProducesAllThreeFields(t *testing.T) {
	client := &scriptedClient{
		text: map[completion.Profile]string{
			completion.ProfileDescription: `{"mechanism":"Binds GPIIb/IIIa [L41539].","overview":"An <b>antiplatelet</b> API."}`,
			completion.ProfileSummary:     "A short summary.",
			completion.ProfileSentence:    "One sentence.",
		},
	}
	orc := NewOrchestrator(client, quickPolicy(), Config{}, nil, nil)

	content := orc.Generate(context.Background(), eligibleRecord("DB00054", "Abciximab"))

	require.Equal(t, StatusSuccess, content.Description.Status)
	require.Len(t, content.Description.Sections, 2)
	assert.Equal(t, "overview", content.Description.Sections[0].Name)
	assert.Equal(t, "An antiplatelet API.", content.Description.Sections[0].Text)
	assert.Equal(t, "mechanism", content.Description.Sections[1].Name)
	assert.Equal(t, "Binds GPIIb/IIIa.", content.Description.Sections[1].Text)
	assert.Equal(t, 1, content.Description.Attempts)

	assert.Equal(t, StatusSuccess, content.Summary.Status)
	assert.Equal(t, "A short summary.", content.Summary.Text)
	assert.Equal(t, StatusSuccess, content.SummarySentence.Status)
	assert.Equal(t, "One sentence.", content.SummarySentence.Text)
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	client := &scriptedClient{
		text:     map[completion.Profile]string{completion.ProfileDescription: "Recovered.", completion.ProfileSummary: "s", completion.ProfileSentence: "s"},
		failures: map[completion.Profile]int{completion.ProfileDescription: 2},
		failErr:  completion.ErrUnavailable,
	}
	orc := NewOrchestrator(client, quickPolicy(), Config{}, nil, nil)

	content := orc.Generate(context.Background(), eligibleRecord("DB00054", "Abciximab"))

	assert.Equal(t, StatusSuccess, content.Description.Status)
	assert.Equal(t, 3, content.Description.Attempts)
	assert.Equal(t, "Recovered.", content.Description.Text())
}

func TestGenerateFieldsFailIndependently(t *testing.T) {
	client := &scriptedClient{
		text: map[completion.Profile]string{
			completion.ProfileSummary:  "Summary from source text.",
			completion.ProfileSentence: "Sentence.",
		},
		alwaysFail: map[completion.Profile]error{
			completion.ProfileDescription: completion.ErrAuth,
		},
	}
	orc := NewOrchestrator(client, quickPolicy(), Config{}, nil, nil)

	rec := eligibleRecord("DB00054", "Abciximab")
	sourceDesc := "Abciximab is a Fab fragment of the chimeric antibody 7E3."
	rec.Description = &sourceDesc

	content := orc.Generate(context.Background(), rec)

	assert.Equal(t, StatusFailed, content.Description.Status)
	assert.Equal(t, 1, content.Description.Attempts, "permanent errors must not be retried")
	assert.Equal(t, StatusSuccess, content.Summary.Status)
	assert.Equal(t, StatusSuccess, content.SummarySentence.Status)

	// With the generated description dead, the summary falls back to the
	// record's own description.
	require.Len(t, client.prompts[completion.ProfileSummary], 1)
	assert.Contains(t, client.prompts[completion.ProfileSummary][0], sourceDesc)
}

func TestGenerateBatchPreservesOrderAndIsolatesPanics(t *testing.T) {
	client := &scriptedClient{
		text: map[completion.Profile]string{
			completion.ProfileDescription: "Body.",
			completion.ProfileSummary:     "Summary.",
			completion.ProfileSentence:    "Sentence.",
		},
		panicOn: "Panicol",
	}
	var seen atomic.Int64
	orc := NewOrchestrator(client, quickPolicy(), Config{
		MaxWorkers: 2,
		OnRecord: func(c *Content) {
			assert.NotNil(t, c)
			seen.Add(1)
		},
	}, nil, nil)

	recs := []*record.Record{
		eligibleRecord("DB0001", "Alprazolam"),
		eligibleRecord("DB0002", "Panicol"),
		eligibleRecord("DB0003", "Cetirizine"),
	}
	batch := orc.GenerateBatch(context.Background(), recs)

	require.Len(t, batch.Results, 3)
	assert.Equal(t, "DB0001", batch.Results[0].RecordId)
	assert.Equal(t, "DB0002", batch.Results[1].RecordId)
	assert.Equal(t, "DB0003", batch.Results[2].RecordId)

	assert.Equal(t, StatusSuccess, batch.Results[0].Description.Status)
	assert.Equal(t, StatusFailed, batch.Results[1].Description.Status)
	assert.Contains(t, batch.Results[1].Description.Reason, "worker panic")
	assert.Equal(t, StatusSuccess, batch.Results[2].Description.Status)

	assert.Equal(t, Counts{Success: 2, Failed: 1}, batch.Description)
	assert.Equal(t, Counts{Success: 2, Failed: 1}, batch.Summary)
	assert.Equal(t, int64(3), seen.Load(), "every record must be reported exactly once")
}

func TestGenerateBatchCountsSkipped(t *testing.T) {
	client := &scriptedClient{
		text: map[completion.Profile]string{
			completion.ProfileDescription: "Body.",
			completion.ProfileSummary:     "Summary.",
			completion.ProfileSentence:    "Sentence.",
		},
	}
	orc := NewOrchestrator(client, quickPolicy(), Config{}, nil, nil)

	recs := []*record.Record{
		eligibleRecord("DB0001", "Alprazolam"),
		{Id: "DB0002"}, // no name, no substantive content
	}
	batch := orc.GenerateBatch(context.Background(), recs)

	assert.Equal(t, Counts{Success: 1, Skipped: 1}, batch.Description)
	assert.Equal(t, Counts{Success: 1, Skipped: 1}, batch.Sentence)
}
