package faq

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Kind selects how a template's answer is produced: expanded in place from
// the answer template and context, or written by the language model.
type Kind string

const (
	KindDirect Kind = "direct"
	KindLLM    Kind = "llm"
)

// Template is one authored FAQ entry. Question and AnswerTemplate may carry
// {placeholder} fields resolved against the record context; answers may also
// carry [[deferred]] markers that survive assembly untouched and are rewritten
// by the HTML exporter for downstream substitution.
type Template struct {
	Id             string   `yaml:"id" json:"id"`
	Question       string   `yaml:"question" json:"question"`
	Kind           Kind     `yaml:"mode" json:"mode"`
	Group          string   `yaml:"group" json:"group"`
	AnswerTemplate string   `yaml:"answer,omitempty" json:"answer,omitempty"`
	ContextKeys    []string `yaml:"contextKeys,omitempty" json:"contextKeys,omitempty"`
	Tags           []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// AlwaysInclude bypasses the context sufficiency gate. Catalog-facing
	// entries whose answers resolve downstream set this.
	AlwaysInclude bool `yaml:"alwaysInclude,omitempty" json:"alwaysInclude,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Placeholders lists the distinct {field} names referenced by the question
// and answer template, in first-appearance order.
func (t *Template) Placeholders() []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, text := range []string{t.Question, t.AnswerTemplate} {
		for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fields = append(fields, name)
		}
	}
	return fields
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates reads an authored template set from a YAML file.
func LoadTemplates(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq templates: %w", err)
	}
	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse faq templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("faq templates %s: no templates defined", path)
	}
	for i := range file.Templates {
		t := &file.Templates[i]
		if t.Id == "" || t.Question == "" {
			return nil, fmt.Errorf("faq templates %s: entry %d missing id or question", path, i)
		}
		switch t.Kind {
		case KindDirect, KindLLM:
		case "":
			t.Kind = KindDirect
		default:
			return nil, fmt.Errorf("faq templates %s: entry %q has unknown mode %q", path, t.Id, t.Kind)
		}
	}
	return file.Templates, nil
}

// BuiltinTemplates returns the authored catalog FAQ set, ordered as it should
// appear on the page.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Id:          "basic_use",
			Kind:        KindLLM,
			Question:    "What is {drug_name} (CAS {cas}) used for?",
			Group:       "technical",
			ContextKeys: []string{"hero", "overview", "pharmacology"},
			Tags:        []string{"indications", "clinical", "high-intent"},
		},
		{
			Id:       "therapeutic_class",
			Kind:     KindDirect,
			Question: "Which therapeutic class does {drug_name} fall into?",
			Group:    "technical",
			AnswerTemplate: "{drug_name} belongs to the following therapeutic categories: {therapeutic_categories}. " +
				"This positioning helps teams compare alternative APIs, anticipate pharmacology expectations, and align early research priorities.",
			ContextKeys: []string{"overview", "pharmacology"},
			Tags:        []string{"classification", "clinical"},
		},
		{
			Id:       "primary_indications",
			Kind:     KindDirect,
			Question: "What conditions is {drug_name} mainly prescribed for?",
			Group:    "technical",
			AnswerTemplate: "The primary indications for {drug_name}: {primary_indications}. " +
				"These use cases frame the target patient populations and help prioritize formulation and safety evaluations.",
			ContextKeys: []string{"overview"},
			Tags:        []string{"indications", "clinical"},
		},
		{
			Id:       "regions_approved",
			Kind:     KindDirect,
			Question: "Where is {drug_name} approved or in use globally?",
			Group:    "regulatory",
			AnswerTemplate: "{drug_name} is reported as approved in the following major regions: {regions_approved}. " +
				"Understanding geographic coverage informs regulatory filings, supply planning, and risk assessments before escalating procurement.",
			ContextKeys: []string{"regulatory"},
			Tags:        []string{"regulatory", "markets"},
		},
		{
			Id:          "mechanism_of_action",
			Kind:        KindDirect,
			Question:    "How does {drug_name} work?",
			Group:       "technical",
			ContextKeys: []string{"pharmacology"},
			Tags:        []string{"mechanism", "pharmacology"},
		},
		{
			Id:          "safety_toxicity",
			Kind:        KindLLM,
			Question:    "What should someone know about the safety or toxicity profile of {drug_name}?",
			Group:       "technical",
			ContextKeys: []string{"safety", "overview", "pharmacology"},
			Tags:        []string{"safety", "toxicity"},
		},
		{
			Id:          "formulation_handling",
			Kind:        KindLLM,
			Question:    "What are important formulation and handling considerations for {drug_name} as an API?",
			Group:       "technical",
			ContextKeys: []string{"adme", "formulation"},
			Tags:        []string{"formulation", "handling"},
		},
		{
			Id:          "regulatory_patent",
			Kind:        KindLLM,
			Question:    "What’s the regulatory and patent landscape for {drug_name} right now?",
			Group:       "regulatory",
			ContextKeys: []string{"regulatory"},
			Tags:        []string{"regulatory", "patents"},
		},
		{
			Id:          "sourcing",
			Kind:        KindLLM,
			Question:    "What matters most when sourcing GMP-grade {drug_name}?",
			Group:       "sourcing",
			ContextKeys: []string{"regulatory", "supply"},
			Tags:        []string{"sourcing", "buyers"},
		},
		{
			Id:       "sourcing_documents",
			Kind:     KindDirect,
			Question: "Which documents are typically required when sourcing {drug_name} API?",
			Group:    "sourcing",
			AnswerTemplate: "Request the core API documentation set: {sourcing_documents}. " +
				"Confirm versions and validity dates match the destination market to avoid delays in qualification.",
			ContextKeys:   []string{"regulatory", "supply"},
			Tags:          []string{"sourcing", "documentation"},
			AlwaysInclude: true,
		},
		{
			Id:       "small_molecule",
			Kind:     KindDirect,
			Question: "Is {drug_name} a {drug_type}?",
			Group:    "technical",
			AnswerTemplate: "{drug_name} is classified as a {drug_type}. " +
				"That classification shapes process design, impurity profiling, and analytical control strategies.",
			ContextKeys: []string{"identification", "overview"},
			Tags:        []string{"classification", "chemistry"},
		},
		{
			Id:          "stability_concerns",
			Kind:        KindLLM,
			Question:    "Are there special stability concerns for oral {drug_name}?",
			Group:       "technical",
			ContextKeys: []string{"formulation", "adme"},
			Tags:        []string{"formulation", "stability"},
		},
		{
			Id:       "patent_expiry",
			Kind:     KindDirect,
			Question: "When are the key patents for {drug_name} expected to expire?",
			Group:    "regulatory",
			AnswerTemplate: "Patent timelines reported for {drug_name}: {patent_status}. " +
				"Use these milestones to inform market entry planning, dossier preparation, and exclusivity risk assessments.",
			ContextKeys: []string{"regulatory"},
			Tags:        []string{"regulatory", "patents"},
		},
		{
			Id:       "manufacturers",
			Kind:     KindDirect,
			Question: "Which manufacturers are known to produce {drug_name} API?",
			Group:    "sourcing",
			AnswerTemplate: "Known or reported manufacturers for {drug_name}: [[manufacturers]]. " +
				"Evaluate their GMP history, scale, and regional coverage before requesting dossiers or allocating demand.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"suppliers", "manufacturing"},
			AlwaysInclude: true,
		},
		{
			Id:       "quote_requests",
			Kind:     KindDirect,
			Question: "How can I request quotes for {drug_name} API from GMP suppliers?",
			Group:    "sourcing",
			AnswerTemplate: "Submit quote requests through the supplier listings with your specs and required documents ({quote_guidance}). " +
				"Providing consistent details upfront speeds comparable offers and clarifies technical feasibility.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"sourcing", "quotes"},
			AlwaysInclude: true,
		},
		{
			Id:       "smart_sourcing",
			Kind:     KindDirect,
			Question: "How does Pharmaoffer’s Smart Sourcing Service help with {drug_name} procurement?",
			Group:    "pharmaoffer",
			AnswerTemplate: "Pharmaoffer's Smart Sourcing Service coordinates compliant suppliers, documentation, and competitive quotes for {drug_name}. " +
				"It centralizes outreach, follow-ups, and document validation to shorten procurement timelines.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"pharmaoffer", "services"},
			AlwaysInclude: true,
		},
		{
			Id:       "gmp_audit",
			Kind:     KindDirect,
			Question: "Is a GMP audit report available for {drug_name} manufacturers?",
			Group:    "sourcing",
			AnswerTemplate: "Audit reports may be requested for {drug_name}: [[gmp_audit_reports]]. " +
				"Confirm the scope and recency of any audit before relying on it for qualification decisions.",
			ContextKeys:   []string{"supply", "regulatory"},
			Tags:          []string{"gmp", "audit"},
			AlwaysInclude: true,
		},
		{
			Id:       "pro_data",
			Kind:     KindDirect,
			Question: "Is {drug_name} included in the PRO Data Insights coverage?",
			Group:    "pharmaoffer",
			AnswerTemplate: "PRO Data Insights coverage for {drug_name}: [[pro_data_available]]. " +
				"Use the dataset to benchmark suppliers and monitor regulatory activity where available.",
			ContextKeys:   []string{"regulatory"},
			Tags:          []string{"analytics", "pro-data"},
			AlwaysInclude: true,
		},
		{
			Id:       "market_report",
			Kind:     KindDirect,
			Question: "Where can I access the API market report for {drug_name}?",
			Group:    "pharmaoffer",
			AnswerTemplate: "Market report availability for {drug_name}: [[market_report_link]]. " +
				"The report highlights demand trends, pricing drivers, and supplier landscape insights for procurement planning.",
			ContextKeys:   []string{"regulatory", "supply"},
			Tags:          []string{"market", "report"},
			AlwaysInclude: true,
		},
		{
			Id:       "supplier_count",
			Kind:     KindDirect,
			Question: "How many suppliers offer {drug_name} API on Pharmaoffer?",
			Group:    "sourcing",
			AnswerTemplate: "Reported supplier count for {drug_name}: [[supplier_count]] verified suppliers. " +
				"Filter listings by certifications, regions, and delivery options to match your qualification plan.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"suppliers", "counts"},
			AlwaysInclude: true,
		},
		{
			Id:       "producing_countries",
			Kind:     KindDirect,
			Question: "Which countries are known to manufacture {drug_name} API?",
			Group:    "sourcing",
			AnswerTemplate: "Production countries reported for {drug_name}: [[manufacturer_countries]]. " +
				"Knowing the manufacturing geography helps anticipate logistics lead times and import compliance needs.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"suppliers", "countries"},
			AlwaysInclude: true,
		},
		{
			Id:       "gmp_certifications",
			Kind:     KindDirect,
			Question: "Which certifications do suppliers of {drug_name} usually hold?",
			Group:    "sourcing",
			AnswerTemplate: "Common certifications for {drug_name} suppliers: [[gmp_certifications]]. " +
				"Always verify issuing authorities and expiry dates when reviewing audit packages.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"gmp", "certifications"},
			AlwaysInclude: true,
		},
		{
			Id:       "typical_moq",
			Kind:     KindDirect,
			Question: "What’s a typical MOQ for {drug_name} API?",
			Group:    "sourcing",
			AnswerTemplate: "Typical minimum order quantities (MOQ) for {drug_name}: [[moq_info]]. " +
				"Discuss flexibility for pilot, validation, or scale-up batches with suppliers early.",
			ContextKeys:   []string{"supply"},
			Tags:          []string{"sourcing", "moq"},
			AlwaysInclude: true,
		},
	}
}
