package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"api-page-gen/pkg/record"
)

func TestMissingFieldsEligibleRecord(t *testing.T) {
	name := "Abciximab"
	indication := "Prevention of cardiac ischemic complications"
	rec := &record.Record{Id: "DB00054", Name: &name, Indication: &indication}

	assert.Empty(t, MissingFields(rec))
}

func TestMissingFieldsNoName(t *testing.T) {
	indication := "Adjunct therapy"
	rec := &record.Record{Id: "DB00054", Indication: &indication}

	assert.Equal(t, []string{"name"}, MissingFields(rec))
}

func TestMissingFieldsNoSubstantiveContent(t *testing.T) {
	name := "Abciximab"
	rec := &record.Record{Id: "DB00054", Name: &name}

	missing := MissingFields(rec)
	assert.Contains(t, missing, "indication")
	assert.Contains(t, missing, "mechanism-of-action")
	assert.Contains(t, missing, "pharmacodynamics")
	assert.Contains(t, missing, "description")
}

func TestMissingFieldsAnySubstantiveFieldSuffices(t *testing.T) {
	name := "Abciximab"
	pd := "Inhibits platelet aggregation"
	rec := &record.Record{Id: "DB00054", Name: &name, Pharmacodynamics: &pd}

	assert.Empty(t, MissingFields(rec))
}
