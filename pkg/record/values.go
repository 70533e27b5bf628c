package record

import "strconv"

// Values returns the resolution map used by the template compiler. Keys are
// camelCase and mirror the JSON field names; nil scalars and empty
// collections are omitted so that an unresolved dataPath reads as absent
// rather than as an empty value. The map is built once per record and shared
// across callers; treat it as read-only.
func (r *Record) Values() map[string]any {
	r.valuesOnce.Do(func() { r.values = r.buildValues() })
	return r.values
}

func (r *Record) buildValues() map[string]any {
	values := map[string]any{
		"drugbankId": r.Id,
	}

	putString(values, "name", r.Name)
	putString(values, "description", r.Description)
	putString(values, "casNumber", r.CasNumber)
	putString(values, "unii", r.Unii)
	putString(values, "moleculeType", r.MoleculeType)
	putString(values, "state", r.State)
	putString(values, "molecularFormula", r.MolecularFormula)
	putFloat(values, "averageMass", r.AverageMass)
	putFloat(values, "monoisotopicMass", r.MonoisotopicMass)
	putString(values, "logP", r.LogP)
	putString(values, "waterSolubility", r.WaterSolubility)
	putString(values, "meltingPoint", r.MeltingPoint)
	putString(values, "indication", r.Indication)
	putString(values, "pharmacodynamics", r.Pharmacodynamics)
	putString(values, "mechanismOfAction", r.MechanismOfAction)
	putString(values, "toxicity", r.Toxicity)
	putString(values, "absorption", r.Absorption)
	putString(values, "halfLife", r.HalfLife)
	putString(values, "proteinBinding", r.ProteinBinding)
	putString(values, "metabolism", r.Metabolism)
	putString(values, "routeOfElimination", r.RouteOfElimination)
	putString(values, "volumeOfDistribution", r.VolumeOfDistribution)
	putString(values, "clearance", r.Clearance)
	putString(values, "synthesisReference", r.SynthesisReference)

	putStrings(values, "groups", r.Groups)
	putStrings(values, "categories", r.Categories)
	putStrings(values, "synonyms", r.Synonyms)
	putStrings(values, "internationalBrands", r.InternationalBrands)
	putStrings(values, "foodInteractions", r.FoodInteractions)
	putStrings(values, "packagers", r.Packagers)
	putStrings(values, "manufacturers", r.Manufacturers)
	putStrings(values, "brandNames", r.BrandNames())
	putStrings(values, "markets", r.Markets())

	if r.Classification != nil {
		classification := map[string]any{}
		putString(classification, "description", r.Classification.Description)
		putString(classification, "directParent", r.Classification.DirectParent)
		putString(classification, "kingdom", r.Classification.Kingdom)
		putString(classification, "superclass", r.Classification.Superclass)
		putString(classification, "className", r.Classification.ClassName)
		putString(classification, "subclass", r.Classification.Subclass)
		putStrings(classification, "alternativeParents", r.Classification.AlternativeParents)
		putStrings(classification, "substituents", r.Classification.Substituents)
		if len(classification) > 0 {
			values["classification"] = classification
		}
	}

	if len(r.Products) > 0 {
		items := make([]any, 0, len(r.Products))
		for _, product := range r.Products {
			item := map[string]any{}
			putString(item, "brand", product.Brand)
			putString(item, "country", product.Country)
			putString(item, "dosageForm", product.DosageForm)
			putString(item, "strength", product.Strength)
			putString(item, "route", product.Route)
			items = append(items, item)
		}
		values["products"] = items
	}

	if len(r.Patents) > 0 {
		items := make([]any, 0, len(r.Patents))
		for _, patent := range r.Patents {
			item := map[string]any{}
			putString(item, "number", patent.Number)
			putString(item, "country", patent.Country)
			putString(item, "approvedDate", patent.ApprovedDate)
			putString(item, "expiresDate", patent.ExpiresDate)
			items = append(items, item)
		}
		values["patents"] = items
	}

	if len(r.Targets) > 0 {
		items := make([]any, 0, len(r.Targets))
		for _, target := range r.Targets {
			item := map[string]any{}
			putString(item, "name", target.Name)
			putString(item, "organism", target.Organism)
			putStrings(item, "actions", target.Actions)
			items = append(items, item)
		}
		values["targets"] = items
	}

	if len(r.Dosages) > 0 {
		items := make([]any, 0, len(r.Dosages))
		for _, dosage := range r.Dosages {
			item := map[string]any{}
			putString(item, "form", dosage.Form)
			putString(item, "route", dosage.Route)
			putString(item, "strength", dosage.Strength)
			items = append(items, item)
		}
		values["dosages"] = items
	}

	if len(r.AtcCodes) > 0 {
		codes := make([]string, 0, len(r.AtcCodes))
		for _, atc := range r.AtcCodes {
			if atc.Code != nil && *atc.Code != "" {
				codes = append(codes, *atc.Code)
			}
		}
		putStrings(values, "atcCodes", codes)
	}

	if len(r.ExternalIdentifiers) > 0 {
		ids := make([]string, 0, len(r.ExternalIdentifiers))
		for _, external := range r.ExternalIdentifiers {
			if external.Resource == nil || external.Identifier == nil {
				continue
			}
			ids = append(ids, *external.Resource+": "+*external.Identifier)
		}
		putStrings(values, "externalIdentifiers", ids)
	}

	return values
}

func putString(values map[string]any, key string, value *string) {
	if value != nil && *value != "" {
		values[key] = *value
	}
}

func putFloat(values map[string]any, key string, value *float64) {
	if value != nil {
		values[key] = strconv.FormatFloat(*value, 'f', -1, 64)
	}
}

func putStrings(values map[string]any, key string, items []string) {
	if len(items) == 0 {
		return
	}
	copied := make([]any, len(items))
	for i, item := range items {
		copied[i] = item
	}
	values[key] = copied
}
