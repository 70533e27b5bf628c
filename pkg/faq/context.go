package faq

import (
	"fmt"
	"strings"

	"api-page-gen/pkg/generate"
	"api-page-gen/pkg/page"
	"api-page-gen/pkg/record"
)

// Context holds everything a template can draw on for one record: scalar
// placeholder fields and the larger narrative slices fed to model-written
// answers.
type Context struct {
	Fields map[string]string
	Slices map[string]string
}

// Placeholder fields that may be satisfied by a sibling when empty.
var fieldFallbacks = map[string][]string{
	"drug_type":    {"molecule_type"},
	"drug_name":    {"generic_name"},
	"generic_name": {"drug_name"},
}

const (
	quoteGuidance     = "specifications, target volume, delivery timeline, and destination"
	sourcingDocuments = "DMF/ASMF, CEP (if available), GMP certificate, CoA, SDS/MSDS, stability data, and method of analysis"
)

// BuildContext derives the FAQ context for one record from its source data,
// its compiled page, and whatever generated content succeeded. The page model
// and content are both optional; missing inputs just leave slices empty.
func BuildContext(rec *record.Record, model *page.Model, content *generate.Content) *Context {
	ctx := &Context{
		Fields: make(map[string]string),
		Slices: make(map[string]string),
	}

	ctx.Fields["drug_id"] = rec.Id
	ctx.Fields["drug_name"] = rec.DisplayName()
	ctx.Fields["generic_name"] = rec.DisplayName()
	ctx.Fields["cas"] = deref(rec.CasNumber)
	ctx.Fields["therapeutic_categories"] = joinLimited(rec.Categories, 5)
	ctx.Fields["primary_indications"] = deref(rec.Indication)
	ctx.Fields["regions_approved"] = joinLimited(rec.Markets(), 50)
	ctx.Fields["mechanism_of_action"] = deref(rec.MechanismOfAction)
	ctx.Fields["half_life"] = deref(rec.HalfLife)
	ctx.Fields["patent_status"] = patentStatus(rec.Patents)
	ctx.Fields["drug_type"] = deref(rec.MoleculeType)
	ctx.Fields["molecule_type"] = deref(rec.MoleculeType)
	ctx.Fields["quote_guidance"] = quoteGuidance
	ctx.Fields["sourcing_documents"] = sourcingDocuments

	if model != nil {
		ctx.Slices["hero"] = model.SectionText("hero")
		ctx.Slices["overview"] = model.SectionText("overview")
		ctx.Slices["identification"] = model.SectionText("identification")
		ctx.Slices["pharmacology"] = model.SectionText("pharmacology")
		ctx.Slices["adme"] = model.SectionText("adme")
		ctx.Slices["regulatory"] = model.SectionText("regulatory")
		ctx.Slices["supply"] = model.SectionText("supply")
		ctx.Slices["safety"] = model.SectionText("safety")
		// Solubility, state and melting point live in the chemistry block
		// and are what formulation questions actually need.
		ctx.Slices["formulation"] = model.SectionText("chemistry")
	}

	// Generated narrative beats compiled field text where it exists.
	if content != nil {
		if content.Summary.Status == generate.StatusSuccess && content.Summary.Text != "" {
			ctx.Slices["hero"] = content.Summary.Text
		}
		if content.Description.Status == generate.StatusSuccess {
			if text := content.Description.Text(); text != "" {
				ctx.Slices["overview"] = text
			}
		}
	}

	return ctx
}

// Resolve returns the value for a placeholder field, consulting the fallback
// table when the primary value is empty.
func (c *Context) Resolve(field string) (string, bool) {
	if value := c.Fields[field]; value != "" {
		return value, true
	}
	for _, alt := range fieldFallbacks[field] {
		if value := c.Fields[alt]; value != "" {
			return value, true
		}
	}
	return "", false
}

// Expand substitutes every {placeholder} in text. The second return is false
// when any placeholder has no value.
func (c *Context) Expand(text string) (string, bool) {
	complete := true
	expanded := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := c.Resolve(name)
		if !ok {
			complete = false
			return match
		}
		return value
	})
	return expanded, complete
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func joinLimited(values []string, max int) string {
	var kept []string
	seen := make(map[string]struct{})
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		kept = append(kept, v)
		if len(kept) >= max {
			break
		}
	}
	return strings.Join(kept, ", ")
}

func patentStatus(patents []record.Patent) string {
	var earliest, latest string
	count := 0
	for _, p := range patents {
		expires := deref(p.ExpiresDate)
		if expires == "" {
			continue
		}
		count++
		if earliest == "" || expires < earliest {
			earliest = expires
		}
		if latest == "" || expires > latest {
			latest = expires
		}
	}
	if count == 0 {
		return ""
	}
	if earliest == latest {
		return fmt.Sprintf("%d patent(s) on record, expiring %s", count, latest)
	}
	return fmt.Sprintf("%d patent(s) on record, expiring between %s and %s", count, earliest, latest)
}
