package generate

import "api-page-gen/pkg/record"

// Substantive content fields: a record must carry at least one of these to
// be worth a generation call.
var substantiveFields = []struct {
	name  string
	value func(*record.Record) *string
}{
	{"indication", func(r *record.Record) *string { return r.Indication }},
	{"mechanism-of-action", func(r *record.Record) *string { return r.MechanismOfAction }},
	{"pharmacodynamics", func(r *record.Record) *string { return r.Pharmacodynamics }},
	{"description", func(r *record.Record) *string { return r.Description }},
}

// MissingFields runs the eligibility gate and returns the names of the
// fields that block generation; an empty result means the record is
// eligible. Gated records are skipped, never failed.
func MissingFields(rec *record.Record) []string {
	var missing []string
	if rec.Name == nil || *rec.Name == "" {
		missing = append(missing, "name")
	}

	hasSubstance := false
	for _, field := range substantiveFields {
		if value := field.value(rec); value != nil && *value != "" {
			hasSubstance = true
			break
		}
	}
	if !hasSubstance {
		for _, field := range substantiveFields {
			missing = append(missing, field.name)
		}
	}
	return missing
}
