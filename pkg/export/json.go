// Package export writes the pipeline's output artifacts: the parsed record
// database, compiled page models, generated descriptions, assembled FAQs,
// and an HTML preview of the lot.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"api-page-gen/pkg/faq"
	"api-page-gen/pkg/page"
	"api-page-gen/pkg/record"
)

// Description pairs a record with its final generated description text.
type Description struct {
	RecordId string `json:"recordId"`
	Name     string `json:"name"`
	Text     string `json:"description"`
}

// WriteDatabase exports the parsed record store as a JSON array in load
// order.
func WriteDatabase(path string, store *record.Store) error {
	return writeJSON(path, store.All())
}

// WritePages exports the compiled page models in input order.
func WritePages(path string, models []*page.Model) error {
	return writeJSON(path, models)
}

// WriteDescriptions exports generated descriptions in input order.
func WriteDescriptions(path string, descriptions []Description) error {
	return writeJSON(path, descriptions)
}

// WriteFAQs exports assembled FAQ lists in input order.
func WriteFAQs(path string, faqs []faq.RecordFAQs) error {
	return writeJSON(path, faqs)
}

func writeJSON(path string, payload any) error {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	raw = append(raw, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
