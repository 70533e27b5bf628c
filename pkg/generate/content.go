package generate

import (
	"encoding/json"
	"sort"
	"strings"
)

// Status of one generated content field.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Section is one named part of a generated description.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// TextResult is a single generated text field with its outcome.
type TextResult struct {
	Text     string `json:"text,omitempty"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// DescriptionResult is the structured description field. The service may
// answer with one narrative block or a small named-section object; both are
// normalized into Sections.
type DescriptionResult struct {
	Sections []Section `json:"sections,omitempty"`
	Status   Status    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	Attempts int       `json:"attempts,omitempty"`
}

// Text joins the sections into one block in section order.
func (d DescriptionResult) Text() string {
	parts := make([]string, 0, len(d.Sections))
	for _, section := range d.Sections {
		if section.Text != "" {
			parts = append(parts, section.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Content is the per-record generated bundle. It is created by the
// orchestrator, owned by the worker processing the record, and read-only
// after the batch completes.
type Content struct {
	RecordId        string            `json:"recordId"`
	Description     DescriptionResult `json:"description"`
	Summary         TextResult        `json:"summary"`
	SummarySentence TextResult        `json:"summarySentence"`
}

// Values exposes successful fields for template resolution; failed or
// skipped fields stay absent so their page nodes are dropped.
func (c *Content) Values() map[string]any {
	values := make(map[string]any)
	if c.Description.Status == StatusSuccess {
		if text := c.Description.Text(); text != "" {
			values["description"] = text
		}
		sections := make(map[string]any, len(c.Description.Sections))
		for _, section := range c.Description.Sections {
			if section.Text != "" {
				sections[section.Name] = section.Text
			}
		}
		if len(sections) > 0 {
			values["descriptionSections"] = sections
		}
	}
	if c.Summary.Status == StatusSuccess && c.Summary.Text != "" {
		values["summary"] = c.Summary.Text
	}
	if c.SummarySentence.Status == StatusSuccess && c.SummarySentence.Text != "" {
		values["summarySentence"] = c.SummarySentence.Text
	}
	return values
}

// Known section names, in presentation order.
var sectionOrder = []string{"overview", "mechanism", "formulation", "regulatory", "sourcing"}

// NormalizeDescription maps a raw service response onto the internal
// description shape. A JSON object of named sections is taken apart in a
// fixed order; anything else is treated as one opaque overview section
// rather than guessing a finer split.
func NormalizeDescription(raw string) []Section {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var decoded map[string]string
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil && len(decoded) > 0 {
			return orderedSections(decoded)
		}
	}
	return []Section{{Name: "overview", Text: trimmed}}
}

func orderedSections(decoded map[string]string) []Section {
	var sections []Section
	used := make(map[string]struct{})
	for _, name := range sectionOrder {
		if text, ok := decoded[name]; ok && strings.TrimSpace(text) != "" {
			sections = append(sections, Section{Name: name, Text: strings.TrimSpace(text)})
			used[name] = struct{}{}
		}
	}
	// Unknown section names keep their content, appended deterministically.
	var extras []string
	for name := range decoded {
		if _, ok := used[name]; !ok && strings.TrimSpace(decoded[name]) != "" {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		sections = append(sections, Section{Name: name, Text: strings.TrimSpace(decoded[name])})
	}
	return sections
}
