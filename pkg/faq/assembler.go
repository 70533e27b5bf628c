package faq

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"api-page-gen/internal/pkg/logger"
	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/generate"
	"api-page-gen/pkg/generate/prompt"
	"api-page-gen/pkg/page"
	"api-page-gen/pkg/record"
)

// Item is one assembled FAQ, ready for export.
type Item struct {
	Id       string   `json:"id"`
	Group    string   `json:"group"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Kind     Kind     `json:"mode"`
	Tags     []string `json:"tags"`
}

type Config struct {
	MaxWorkers int
	MaxFAQs    int
	MaxTokens  int
}

func (c Config) workers() int {
	if c.MaxWorkers <= 0 {
		return 8
	}
	return c.MaxWorkers
}

// Assembler walks the template set per record and produces its FAQ list,
// expanding direct answers locally and delegating the rest to the model.
type Assembler struct {
	templates []Template
	client    completion.Client
	policy    completion.Policy
	cfg       Config
	logger    logger.ILogger
}

func NewAssembler(
	templates []Template,
	client completion.Client,
	policy completion.Policy,
	cfg Config,
	sysLogger logger.ILogger,
) *Assembler {
	if len(templates) == 0 {
		templates = BuiltinTemplates()
	}
	if sysLogger == nil {
		sysLogger = logger.NewNop()
	}
	return &Assembler{
		templates: templates,
		client:    client,
		policy:    policy,
		cfg:       cfg,
		logger:    sysLogger,
	}
}

// Assemble produces the FAQ list for one record in authored template order.
// A template that cannot be answered is skipped, never emitted half-filled.
func (a *Assembler) Assemble(ctx context.Context, rec *record.Record, model *page.Model, content *generate.Content) []Item {
	faqCtx := BuildContext(rec, model, content)
	var items []Item

	for i := range a.templates {
		tmpl := &a.templates[i]
		if a.cfg.MaxFAQs > 0 && len(items) >= a.cfg.MaxFAQs {
			break
		}
		if !a.hasPlaceholderValues(tmpl, faqCtx, rec.Id) {
			continue
		}
		if !tmpl.AlwaysInclude && !hasContextFor(tmpl, faqCtx) {
			a.logger.Debug("faq", "template skipped for insufficient context", map[string]interface{}{
				"record_id": rec.Id,
				"template":  tmpl.Id,
			})
			continue
		}

		question, ok := faqCtx.Expand(tmpl.Question)
		if !ok {
			continue
		}

		var answer string
		switch tmpl.Kind {
		case KindDirect:
			answer = a.directAnswer(tmpl, faqCtx)
		case KindLLM:
			answer = a.generatedAnswer(ctx, tmpl, question, faqCtx, rec.Id)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}

		items = append(items, Item{
			Id:       tmpl.Id,
			Group:    tmpl.Group,
			Question: question,
			Answer:   answer,
			Kind:     tmpl.Kind,
			Tags:     append([]string(nil), tmpl.Tags...),
		})
	}
	return items
}

func (a *Assembler) hasPlaceholderValues(tmpl *Template, faqCtx *Context, recordId string) bool {
	var missing []string
	for _, field := range tmpl.Placeholders() {
		if _, ok := faqCtx.Resolve(field); !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		a.logger.Debug("faq", "template skipped for missing fields", map[string]interface{}{
			"record_id": recordId,
			"template":  tmpl.Id,
			"missing":   missing,
		})
		return false
	}
	return true
}

// hasContextFor decides whether a template has enough substance behind it to
// be worth emitting. A handful of templates accept broader evidence than
// their declared context keys.
func hasContextFor(tmpl *Template, faqCtx *Context) bool {
	if tmpl.Kind == KindLLM {
		switch tmpl.Id {
		case "regulatory_patent":
			return faqCtx.Fields["patent_status"] != "" || faqCtx.Slices["regulatory"] != ""
		case "stability_concerns":
			return faqCtx.Slices["formulation"] != "" || faqCtx.Slices["adme"] != ""
		case "safety_toxicity":
			return faqCtx.Slices["safety"] != "" || faqCtx.Slices["pharmacology"] != "" || faqCtx.Slices["overview"] != ""
		case "formulation_handling":
			return faqCtx.Slices["adme"] != "" || faqCtx.Slices["formulation"] != ""
		case "sourcing":
			return faqCtx.Slices["supply"] != "" || faqCtx.Slices["regulatory"] != ""
		}
		for _, key := range tmpl.ContextKeys {
			if faqCtx.Slices[key] != "" {
				return true
			}
		}
		return false
	}

	switch tmpl.Id {
	case "patent_expiry":
		return faqCtx.Fields["patent_status"] != ""
	case "therapeutic_class":
		return faqCtx.Fields["therapeutic_categories"] != ""
	case "primary_indications":
		return faqCtx.Fields["primary_indications"] != ""
	case "regions_approved":
		return faqCtx.Fields["regions_approved"] != ""
	case "small_molecule":
		_, ok := faqCtx.Resolve("drug_type")
		return ok
	}
	return true
}

// directAnswer expands the authored answer, or falls back to the merged
// context slices when the template carries no answer text.
func (a *Assembler) directAnswer(tmpl *Template, faqCtx *Context) string {
	if tmpl.AnswerTemplate != "" {
		answer, ok := faqCtx.Expand(tmpl.AnswerTemplate)
		if !ok {
			return ""
		}
		return answer
	}
	var parts []string
	for _, key := range tmpl.ContextKeys {
		if slice := faqCtx.Slices[key]; slice != "" {
			parts = append(parts, slice)
		}
	}
	return strings.Join(parts, " ")
}

func (a *Assembler) generatedAnswer(ctx context.Context, tmpl *Template, question string, faqCtx *Context, recordId string) string {
	promptText := buildAnswerPrompt(question, faqCtx.Slices, tmpl.ContextKeys)
	outcome := a.policy.Do(ctx, func(callCtx context.Context) (string, error) {
		return a.client.Complete(callCtx, completion.Request{
			System:    prompt.FAQPersona,
			Prompt:    promptText,
			Profile:   completion.ProfileFAQ,
			MaxTokens: a.cfg.MaxTokens,
		})
	})
	if outcome.Err != nil {
		a.logger.Warn("faq", "answer generation failed", map[string]interface{}{
			"record_id": recordId,
			"template":  tmpl.Id,
			"attempts":  outcome.Attempts,
			"reason":    outcome.Err.Error(),
		})
		return ""
	}
	return generate.Sanitize(outcome.Text)
}

var defaultContextKeys = []string{"hero", "overview", "pharmacology", "adme", "regulatory", "safety"}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildAnswerPrompt(question string, slices map[string]string, contextKeys []string) string {
	keys := contextKeys
	if len(keys) == 0 {
		keys = defaultContextKeys
	}
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\nContext:\n")
	for _, key := range keys {
		if value := slices[key]; value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", titleCase(key), value)
		}
	}
	b.WriteString("\nConstraints:\n- Keep responses to 2-4 sentences.\n- Avoid marketing language or speculation.\n- Do not fabricate data.")
	return b.String()
}

// BatchInput pairs everything Assemble needs for one record.
type BatchInput struct {
	Record  *record.Record
	Model   *page.Model
	Content *generate.Content
}

// RecordFAQs is the FAQ list for one record, keyed for export.
type RecordFAQs struct {
	RecordId string `json:"recordId"`
	Items    []Item `json:"faqs"`
}

// AssembleBatch fans records across a bounded pool. Records that yield no
// FAQs are omitted; output order follows input order regardless of
// completion order.
func (a *Assembler) AssembleBatch(ctx context.Context, inputs []BatchInput) []RecordFAQs {
	slots := make([][]Item, len(inputs))

	var wg sync.WaitGroup
	throttle := make(chan struct{}, a.cfg.workers())
	for i, input := range inputs {
		wg.Add(1)
		throttle <- struct{}{}
		go func(slot int, input BatchInput) {
			defer wg.Done()
			defer func() { <-throttle }()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("faq", "assembly panic isolated", map[string]interface{}{
						"record_id": input.Record.Id,
						"panic":     fmt.Sprint(r),
					})
					slots[slot] = nil
				}
			}()
			slots[slot] = a.Assemble(ctx, input.Record, input.Model, input.Content)
		}(i, input)
	}
	wg.Wait()

	var out []RecordFAQs
	for i, items := range slots {
		if len(items) == 0 {
			continue
		}
		out = append(out, RecordFAQs{RecordId: inputs[i].Record.Id, Items: items})
	}
	return out
}

// GroupOrder is the display order for FAQ groups; unknown groups sort after
// the known set, alphabetically.
var GroupOrder = []string{"technical", "regulatory", "sourcing", "pharmaoffer"}

// SortByGroup reorders items into display group order while preserving
// authored order within each group.
func SortByGroup(items []Item) []Item {
	rank := make(map[string]int, len(GroupOrder))
	for i, g := range GroupOrder {
		rank[g] = i
	}
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i].Group]
		rj, jKnown := rank[out[j].Group]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return out[i].Group < out[j].Group
		}
	})
	return out
}
