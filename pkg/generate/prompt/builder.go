// Package prompt builds the completion-service prompts from explicitly
// whitelisted record fields. The raw record never reaches the wire.
package prompt

import (
	"fmt"
	"strings"

	"api-page-gen/pkg/record"
)

// Persona/style directives sent as the system message of each call.
const (
	DescriptionPersona = "You are an expert pharmaceutical scientist who writes precise, compliant API descriptions. " +
		"Use factual, concise language and never fabricate data."
	SummaryPersona = "You condense pharmaceutical descriptions into succinct overviews for catalog cards. " +
		"Maintain accuracy, avoid marketing language, and keep to 1-2 sentences."
	SentencePersona = "You are a medical copywriter introducing medications for a B2B API catalog. " +
		"Write plainly and never mention dosage, brands, or molecular details."
	FAQPersona = "You are an expert pharmaceutical writer creating FAQ answers for active pharmaceutical ingredients. " +
		"Use only the provided context and do not mention missing or unavailable information."
)

// DescriptionBuilder assembles the long-form description prompt.
type DescriptionBuilder struct {
	rec *record.Record
}

func NewDescriptionBuilder(rec *record.Record) *DescriptionBuilder {
	return &DescriptionBuilder{rec: rec}
}

func (b *DescriptionBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("You are writing authoritative product content for formulation scientists, ")
	prompt.WriteString("pharma API sourcing managers, and regulatory affairs teams.\n")
	prompt.WriteString("Write a 260-320 word description in plain text (no HTML or Markdown) using short paragraphs separated by blank lines.\n")
	prompt.WriteString("Emphasize: clinical indication, pharmacology, mechanism of action, key ADME parameters, ")
	prompt.WriteString("safety/toxicity considerations, and any notable brands or usage contexts.\n")
	prompt.WriteString("Close with a concise note on sourcing or quality considerations relevant to API procurement.\n\n")

	b.writeFields(&prompt)

	prompt.WriteString("\nOutput requirements:\n")
	prompt.WriteString("- Plain text only. Do NOT include HTML, Markdown, headings, or bullet symbols.\n")
	prompt.WriteString("- Keep language neutral and compliant.\n")
	prompt.WriteString("- Avoid placeholder text; omit any unknown details rather than fabricating.")

	return prompt.String()
}

func (b *DescriptionBuilder) writeFields(prompt *strings.Builder) {
	rec := b.rec
	prompt.WriteString("Use this structured catalog-derived data:\n")
	writeField(prompt, "API Name", optional(rec.Name))
	writeField(prompt, "CAS Number", optional(rec.CasNumber))
	writeField(prompt, "Description", optional(rec.Description))
	writeField(prompt, "Classification description", classificationDescription(rec))
	writeField(prompt, "Indication", optional(rec.Indication))
	writeField(prompt, "Pharmacodynamics", optional(rec.Pharmacodynamics))
	writeField(prompt, "Mechanism of Action", optional(rec.MechanismOfAction))
	writeField(prompt, "Groups/Approval", list(rec.Groups))
	writeField(prompt, "Drug Categories", list(rec.Categories))
}

// SummaryBuilder condenses a generated description into a catalog preview.
type SummaryBuilder struct {
	rec         *record.Record
	description string
}

func NewSummaryBuilder(rec *record.Record, description string) *SummaryBuilder {
	return &SummaryBuilder{rec: rec, description: description}
}

func (b *SummaryBuilder) Build() string {
	var prompt strings.Builder
	prompt.WriteString("Summarize the following API description for quick B2B catalog previews.\n")
	prompt.WriteString("Output 1-2 sentences highlighting indication, mechanism, and sourcing/quality notes.\n")
	prompt.WriteString("Avoid marketing language and do not exceed 60 words.\n\n")
	fmt.Fprintf(&prompt, "Drug: %s\n", optional(b.rec.Name))
	fmt.Fprintf(&prompt, "CAS: %s\n", optional(b.rec.CasNumber))
	prompt.WriteString("Description:\n")
	prompt.WriteString(b.description)
	return prompt.String()
}

// SentenceBuilder asks for the single introductory sentence shown in hero
// blocks.
type SentenceBuilder struct {
	rec *record.Record
}

func NewSentenceBuilder(rec *record.Record) *SentenceBuilder {
	return &SentenceBuilder{rec: rec}
}

func (b *SentenceBuilder) Build() string {
	var prompt strings.Builder
	prompt.WriteString("Based on the following data, write exactly one simple sentence (18-30 words) ")
	prompt.WriteString("that introduces the medication for a B2B API catalog.\n")
	prompt.WriteString("Start with 'A medication that ...'. Focus on the main disease areas and benefits.\n\n")
	writeContextLine(&prompt, "Name", optional(b.rec.Name))
	writeContextLine(&prompt, "Indications", optional(b.rec.Indication))
	writeContextLine(&prompt, "Therapeutic classes", list(b.rec.Categories))
	writeContextLine(&prompt, "Key markets", list(b.rec.Markets()))
	prompt.WriteString("\nSentence:")
	return prompt.String()
}

func writeField(prompt *strings.Builder, label, value string) {
	fmt.Fprintf(prompt, "- %s: %s\n", label, value)
}

// writeContextLine skips unknown values instead of printing placeholders.
func writeContextLine(prompt *strings.Builder, label, value string) {
	if value == "" || value == "Not specified" {
		return
	}
	fmt.Fprintf(prompt, "%s: %s\n", label, value)
}

func optional(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "Not specified"
	}
	return *value
}

func list(items []string) string {
	var cleaned []string
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) == 0 {
		return "Not specified"
	}
	return strings.Join(cleaned, ", ")
}

func classificationDescription(rec *record.Record) string {
	if rec.Classification == nil {
		return "Not specified"
	}
	return optional(rec.Classification.Description)
}
