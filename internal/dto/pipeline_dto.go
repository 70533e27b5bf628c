package dto

import "api-page-gen/pkg/generate"

// RunRequest parameterizes one pipeline run. Zero values fall back to the
// configured defaults.
type RunRequest struct {
	InputPath    string   `json:"inputPath,omitempty"`
	RecordIds    []string `json:"recordIds,omitempty"`
	MaxRecords   int      `json:"maxRecords,omitempty" validate:"gte=0"`
	DryRun       *bool    `json:"dryRun,omitempty"`
	GenerateFAQs *bool    `json:"generateFaqs,omitempty"`
}

// RunReport is what a finished run returns to its caller.
type RunReport struct {
	RunId       string          `json:"runId"`
	Records     int             `json:"records"`
	Description generate.Counts `json:"description"`
	Summary     generate.Counts `json:"summary"`
	Sentence    generate.Counts `json:"sentence"`
	FAQRecords  int             `json:"faqRecords"`
	FAQCount    int             `json:"faqCount"`
	Duration    string          `json:"duration"`
	Outputs     []string        `json:"outputs"`
}
