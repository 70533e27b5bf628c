package generate

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	citationRe   = regexp.MustCompile(`\[[^\]]*\]`)
	spacesRe     = regexp.MustCompile(`[ \t]+`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
	punctSpaceRe = regexp.MustCompile(` +([.,;:!?])`)
)

func textPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Sanitize normalizes model output to plain text: markup stripped, bracketed
// citation artifacts removed, whitespace collapsed.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := textPolicy().Sanitize(text)
	cleaned = html.UnescapeString(cleaned)
	cleaned = citationRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")
	cleaned = spacesRe.ReplaceAllString(cleaned, " ")
	// Stripping a citation directly before punctuation leaves a stray space.
	cleaned = punctSpaceRe.ReplaceAllString(cleaned, "$1")
	cleaned = blankRunsRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
