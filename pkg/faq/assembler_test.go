package faq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/generate"
	"api-page-gen/pkg/record"
)

func quickPolicy() completion.Policy {
	return completion.Policy{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func generatedOverview(text string) *generate.Content {
	return &generate.Content{
		Description: generate.DescriptionResult{
			Status:   generate.StatusSuccess,
			Sections: []generate.Section{{Name: "overview", Text: text}},
		},
	}
}

func TestAssembleDirectTemplateExpandsAnswer(t *testing.T) {
	templates := []Template{{
		Id:             "basic_use",
		Question:       "What is {drug_name} used for?",
		Kind:           KindDirect,
		Group:          "technical",
		AnswerTemplate: "{drug_name} is indicated for: {primary_indications}",
	}}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "unused"}, quickPolicy(), Config{}, nil)

	items := asm.Assemble(context.Background(), contextRecord(), nil, nil)

	require.Len(t, items, 1)
	assert.Equal(t, "basic_use", items[0].Id)
	assert.Equal(t, "What is Abciximab used for?", items[0].Question)
	assert.Equal(t, "Abciximab is indicated for: Adjunct to PCI for prevention of cardiac ischemic complications.", items[0].Answer)
	assert.Equal(t, KindDirect, items[0].Kind)
}

func TestAssembleSkipsTemplatesWithMissingPlaceholders(t *testing.T) {
	templates := []Template{{
		Id:             "mechanism",
		Question:       "How does {drug_name} work?",
		Kind:           KindDirect,
		AnswerTemplate: "Mechanism: {mechanism_of_action}",
	}}
	rec := &record.Record{Id: "DB0001", Name: strPtr("Sparse")}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "unused"}, quickPolicy(), Config{}, nil)

	items := asm.Assemble(context.Background(), rec, nil, nil)
	assert.Empty(t, items, "a template missing placeholder values is skipped, not half-filled")
}

func TestAssembleGeneratedAnswerIsSanitized(t *testing.T) {
	templates := []Template{{
		Id:          "deep_dive",
		Question:    "Tell me about {drug_name}.",
		Kind:        KindLLM,
		Group:       "technical",
		ContextKeys: []string{"overview"},
	}}
	client := &completion.StaticClient{Text: "An <b>important</b> antiplatelet agent [L41539]."}
	asm := NewAssembler(templates, client, quickPolicy(), Config{}, nil)

	items := asm.Assemble(context.Background(), contextRecord(), nil, generatedOverview("Overview text."))

	require.Len(t, items, 1)
	assert.Equal(t, "An important antiplatelet agent.", items[0].Answer)
}

func TestAssembleLLMTemplateNeedsContext(t *testing.T) {
	templates := []Template{{
		Id:          "deep_dive",
		Question:    "Tell me about {drug_name}.",
		Kind:        KindLLM,
		ContextKeys: []string{"overview"},
	}}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "answer"}, quickPolicy(), Config{}, nil)

	// No page model and no generated content: the overview slice is empty.
	items := asm.Assemble(context.Background(), contextRecord(), nil, nil)
	assert.Empty(t, items)
}

func TestAssembleAlwaysIncludeBypassesContextGate(t *testing.T) {
	templates := []Template{{
		Id:             "quote_requests",
		Question:       "How do I request a quote for {drug_name}?",
		Kind:           KindDirect,
		Group:          "sourcing",
		AnswerTemplate: "Share your {quote_guidance} with the supplier.",
		AlwaysInclude:  true,
		ContextKeys:    []string{"supply"},
	}}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "unused"}, quickPolicy(), Config{}, nil)

	items := asm.Assemble(context.Background(), contextRecord(), nil, nil)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Answer, "delivery timeline")
}

func TestAssembleFailedAnswerOmitsItem(t *testing.T) {
	templates := []Template{{
		Id:          "deep_dive",
		Question:    "Tell me about {drug_name}.",
		Kind:        KindLLM,
		ContextKeys: []string{"overview"},
	}}
	client := &completion.FailingClient{Err: completion.ErrAuth}
	asm := NewAssembler(templates, client, quickPolicy(), Config{}, nil)

	items := asm.Assemble(context.Background(), contextRecord(), nil, generatedOverview("Overview text."))
	assert.Empty(t, items)
}

func TestAssembleHonorsMaxFAQs(t *testing.T) {
	templates := []Template{
		{Id: "one", Question: "Q1 {drug_name}?", Kind: KindDirect, AnswerTemplate: "A1"},
		{Id: "two", Question: "Q2 {drug_name}?", Kind: KindDirect, AnswerTemplate: "A2"},
		{Id: "three", Question: "Q3 {drug_name}?", Kind: KindDirect, AnswerTemplate: "A3"},
	}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "unused"}, quickPolicy(), Config{MaxFAQs: 2}, nil)

	items := asm.Assemble(context.Background(), contextRecord(), nil, nil)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Id)
	assert.Equal(t, "two", items[1].Id)
}

func TestAssembleBatchOmitsEmptyRecordsAndKeepsOrder(t *testing.T) {
	templates := []Template{{
		Id:             "basic_use",
		Question:       "What is {drug_name} used for?",
		Kind:           KindDirect,
		AnswerTemplate: "{primary_indications}",
	}}
	asm := NewAssembler(templates, &completion.StaticClient{Text: "unused"}, quickPolicy(), Config{MaxWorkers: 2}, nil)

	sparse := &record.Record{Id: "DB0002", Name: strPtr("Sparse")}
	second := contextRecord()
	second.Id = "DB0003"
	inputs := []BatchInput{
		{Record: contextRecord()},
		{Record: sparse},
		{Record: second},
	}

	out := asm.AssembleBatch(context.Background(), inputs)

	require.Len(t, out, 2)
	assert.Equal(t, "DB00054", out[0].RecordId)
	assert.Equal(t, "DB0003", out[1].RecordId)
}

func TestBuildAnswerPromptShape(t *testing.T) {
	slices := map[string]string{
		"overview":   "Overview text.",
		"regulatory": "Regulatory text.",
	}
	promptText := buildAnswerPrompt("What about stability?", slices, []string{"overview", "regulatory", "supply"})

	assert.Contains(t, promptText, "Question: What about stability?")
	assert.Contains(t, promptText, "- Overview: Overview text.")
	assert.Contains(t, promptText, "- Regulatory: Regulatory text.")
	assert.NotContains(t, promptText, "Supply", "empty slices stay out of the prompt")
	assert.Contains(t, promptText, "Constraints:")
}

func TestSortByGroupOrdersKnownGroupsFirst(t *testing.T) {
	items := []Item{
		{Id: "a", Group: "sourcing"},
		{Id: "b", Group: "technical"},
		{Id: "c", Group: "custom"},
		{Id: "d", Group: "technical"},
		{Id: "e", Group: "regulatory"},
	}
	sorted := SortByGroup(items)

	got := make([]string, len(sorted))
	for i, item := range sorted {
		got[i] = item.Id
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, got)
}
