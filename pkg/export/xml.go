package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"api-page-gen/pkg/record"
)

type xmlCatalog struct {
	XMLName xml.Name   `xml:"drugs"`
	Drugs   []xmlEntry `xml:"drug"`
}

type xmlEntry struct {
	Name        string `xml:"name"`
	CasNumber   string `xml:"cas-number"`
	Description string `xml:"description"`
}

// WriteDescriptionsXML exports generated descriptions as the legacy catalog
// feed. Records without a description are omitted; order follows the store.
func WriteDescriptionsXML(path string, store *record.Store, descriptions []Description) error {
	byId := make(map[string]string, len(descriptions))
	for _, d := range descriptions {
		byId[d.RecordId] = d.Text
	}

	catalog := xmlCatalog{}
	for _, rec := range store.All() {
		text, ok := byId[rec.Id]
		if !ok {
			continue
		}
		entry := xmlEntry{Description: text}
		if rec.Name != nil {
			entry.Name = *rec.Name
		}
		if rec.CasNumber != nil {
			entry.CasNumber = *rec.CasNumber
		}
		catalog.Drugs = append(catalog.Drugs, entry)
	}

	raw, err := xml.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal descriptions xml: %w", err)
	}
	payload := append([]byte(xml.Header), raw...)
	payload = append(payload, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
