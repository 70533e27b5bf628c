package generate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"api-page-gen/internal/pkg/logger"
	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/generate/prompt"
	"api-page-gen/pkg/record"
)

// Config bounds the orchestrator. MaxWorkers caps the pool; the outbound
// rate gate lives in the completion client, so worker count never translates
// into service pressure.
type Config struct {
	MaxWorkers           int
	DescriptionMaxTokens int
	SummaryMaxTokens     int
	SentenceMaxTokens    int

	// OnRecord, when set, is invoked from the worker as soon as a record's
	// content is final. Implementations must be safe for concurrent use.
	OnRecord func(*Content)
}

func (c Config) workers() int {
	if c.MaxWorkers <= 0 {
		return 4
	}
	return c.MaxWorkers
}

// Orchestrator drives content generation for a batch of records.
type Orchestrator struct {
	client    completion.Client
	policy    completion.Policy
	cfg       Config
	logger    logger.ILogger
	promptLog *PromptLog
}

func NewOrchestrator(
	client completion.Client,
	policy completion.Policy,
	cfg Config,
	sysLogger logger.ILogger,
	promptLog *PromptLog,
) *Orchestrator {
	if sysLogger == nil {
		sysLogger = logger.NewNop()
	}
	return &Orchestrator{
		client:    client,
		policy:    policy,
		cfg:       cfg,
		logger:    sysLogger,
		promptLog: promptLog,
	}
}

// Generate produces the content bundle for one record. Eligibility is gated
// first; the three calls then run sequentially but fail independently, so a
// dead description never blocks the summary.
func (o *Orchestrator) Generate(ctx context.Context, rec *record.Record) *Content {
	content := &Content{RecordId: rec.Id}

	if missing := MissingFields(rec); len(missing) > 0 {
		reason := "missing fields: " + strings.Join(missing, ", ")
		o.logger.Warn("generator", "record skipped by eligibility gate", map[string]interface{}{
			"record_id": rec.Id,
			"missing":   missing,
		})
		content.Description = DescriptionResult{Status: StatusSkipped, Reason: reason}
		content.Summary = TextResult{Status: StatusSkipped, Reason: reason}
		content.SummarySentence = TextResult{Status: StatusSkipped, Reason: reason}
		return content
	}

	content.Description = o.generateDescription(ctx, rec)
	content.Summary = o.generateSummary(ctx, rec, content.Description)
	content.SummarySentence = o.generateSentence(ctx, rec)
	return content
}

func (o *Orchestrator) generateDescription(ctx context.Context, rec *record.Record) DescriptionResult {
	promptText := prompt.NewDescriptionBuilder(rec).Build()
	o.promptLog.Append(rec.Id, "description", promptText)

	outcome := o.complete(ctx, completion.Request{
		System:    prompt.DescriptionPersona,
		Prompt:    promptText,
		Profile:   completion.ProfileDescription,
		MaxTokens: o.cfg.DescriptionMaxTokens,
	})
	if outcome.Err != nil {
		o.logFailure(rec.Id, "description", outcome)
		return DescriptionResult{Status: StatusFailed, Reason: outcome.Err.Error(), Attempts: outcome.Attempts}
	}

	sections := NormalizeDescription(outcome.Text)
	for i := range sections {
		sections[i].Text = Sanitize(sections[i].Text)
	}
	return DescriptionResult{Sections: sections, Status: StatusSuccess, Attempts: outcome.Attempts}
}

func (o *Orchestrator) generateSummary(ctx context.Context, rec *record.Record, desc DescriptionResult) TextResult {
	// Summarize the generated description when it exists, the source
	// record's own description otherwise; the summary call must not depend
	// on the description call's fate.
	source := desc.Text()
	if desc.Status != StatusSuccess || source == "" {
		if rec.Description != nil {
			source = *rec.Description
		}
	}
	if source == "" && rec.Indication != nil {
		source = *rec.Indication
	}

	promptText := prompt.NewSummaryBuilder(rec, source).Build()
	o.promptLog.Append(rec.Id, "summary", promptText)

	outcome := o.complete(ctx, completion.Request{
		System:    prompt.SummaryPersona,
		Prompt:    promptText,
		Profile:   completion.ProfileSummary,
		MaxTokens: o.cfg.SummaryMaxTokens,
	})
	if outcome.Err != nil {
		o.logFailure(rec.Id, "summary", outcome)
		return TextResult{Status: StatusFailed, Reason: outcome.Err.Error(), Attempts: outcome.Attempts}
	}
	return TextResult{Text: Sanitize(outcome.Text), Status: StatusSuccess, Attempts: outcome.Attempts}
}

func (o *Orchestrator) generateSentence(ctx context.Context, rec *record.Record) TextResult {
	promptText := prompt.NewSentenceBuilder(rec).Build()
	o.promptLog.Append(rec.Id, "sentence", promptText)

	outcome := o.complete(ctx, completion.Request{
		System:    prompt.SentencePersona,
		Prompt:    promptText,
		Profile:   completion.ProfileSentence,
		MaxTokens: o.cfg.SentenceMaxTokens,
	})
	if outcome.Err != nil {
		o.logFailure(rec.Id, "sentence", outcome)
		return TextResult{Status: StatusFailed, Reason: outcome.Err.Error(), Attempts: outcome.Attempts}
	}
	return TextResult{Text: Sanitize(outcome.Text), Status: StatusSuccess, Attempts: outcome.Attempts}
}

func (o *Orchestrator) complete(ctx context.Context, req completion.Request) completion.Outcome {
	return o.policy.Do(ctx, func(callCtx context.Context) (string, error) {
		return o.client.Complete(callCtx, req)
	})
}

func (o *Orchestrator) logFailure(recordId, kind string, outcome completion.Outcome) {
	o.logger.Error("generator", "content generation failed", map[string]interface{}{
		"record_id": recordId,
		"kind":      kind,
		"attempts":  outcome.Attempts,
		"reason":    outcome.Err.Error(),
	})
}

// Counts summarizes one content kind across a batch.
type Counts struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (c *Counts) add(status Status) {
	switch status {
	case StatusSuccess:
		c.Success++
	case StatusFailed:
		c.Failed++
	case StatusSkipped:
		c.Skipped++
	}
}

// BatchResult carries one Content per input record, in input order, plus the
// run-end summary counts.
type BatchResult struct {
	Results     []*Content
	Description Counts
	Summary     Counts
	Sentence    Counts
}

// GenerateBatch fans the records out over a bounded worker pool. Results are
// written into per-index slots so output order always matches input order,
// whatever the completion order. One record's failure (or panic) never
// touches its neighbours.
func (o *Orchestrator) GenerateBatch(ctx context.Context, recs []*record.Record) *BatchResult {
	result := &BatchResult{
		Results: make([]*Content, len(recs)),
	}

	var wg sync.WaitGroup
	throttle := make(chan struct{}, o.cfg.workers())

	for i, rec := range recs {
		wg.Add(1)
		throttle <- struct{}{}
		go func(slot int, rec *record.Record) {
			defer wg.Done()
			defer func() { <-throttle }()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("generator", "worker panic isolated", map[string]interface{}{
						"record_id": rec.Id,
						"panic":     fmt.Sprint(r),
					})
					result.Results[slot] = panicContent(rec.Id, r)
				}
				if o.cfg.OnRecord != nil {
					o.cfg.OnRecord(result.Results[slot])
				}
			}()
			result.Results[slot] = o.Generate(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	for _, content := range result.Results {
		result.Description.add(content.Description.Status)
		result.Summary.add(content.Summary.Status)
		result.Sentence.add(content.SummarySentence.Status)
	}

	o.logger.Info("generator", "batch finished", map[string]interface{}{
		"records":             len(recs),
		"description_success": result.Description.Success,
		"description_failed":  result.Description.Failed,
		"description_skipped": result.Description.Skipped,
	})
	return result
}

func panicContent(recordId string, cause any) *Content {
	reason := fmt.Sprintf("worker panic: %v", cause)
	return &Content{
		RecordId:        recordId,
		Description:     DescriptionResult{Status: StatusFailed, Reason: reason},
		Summary:         TextResult{Status: StatusFailed, Reason: reason},
		SummarySentence: TextResult{Status: StatusFailed, Reason: reason},
	}
}
