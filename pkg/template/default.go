package template

// Default returns the built-in API page template. It mirrors the authored
// layout shipped with the original catalog pipeline: hero and overview first,
// then identification, chemistry, pharmacology, ADME, regulatory, supply and
// safety blocks. Callers may replace it with a loaded definition.
func Default() *Definition {
	return &Definition{
		Name: "API catalog page",
		Blocks: []*Node{
			group("hero", "Hero",
				leaf("hero-title", "Title", "name"),
				leaf("hero-summary", "Summary sentence", "summarySentence"),
				array("hero-groups", "Groups", limit(6), "groups"),
				array("hero-categories", "Primary categories", limit(6), "categories"),
			),
			group("overview", "Overview",
				leaf("overview-summary", "Key takeaway", "summary"),
				leaf("overview-description", "Description", "description"),
			),
			group("identification", "Identification",
				leaf("identification-generic", "Generic name", "name"),
				array("identification-brands", "Brand names", limit(12), "brandNames"),
				array("identification-synonyms", "Synonyms", limit(12), "synonyms"),
				leaf("identification-molecule-type", "Molecule type", "moleculeType"),
				leaf("identification-cas", "CAS number", "casNumber"),
				leaf("identification-unii", "UNII", "unii"),
				leaf("identification-drugbank", "DrugBank ID", "drugbankId"),
				array("identification-external", "External identifiers", limit(12), "externalIdentifiers"),
			),
			group("chemistry", "Chemistry",
				leaf("chemistry-formula", "Molecular formula", "molecularFormula"),
				leaf("chemistry-average-mass", "Average mass", "averageMass"),
				leaf("chemistry-mono-mass", "Monoisotopic mass", "monoisotopicMass"),
				leaf("chemistry-logp", "logP", "logP"),
				leaf("chemistry-solubility", "Water solubility", "waterSolubility"),
				leaf("chemistry-melting-point", "Melting point", "meltingPoint"),
				boundGroup("chemistry-classification", "Classification", "classification",
					leaf("classification-description", "Description", "description"),
					leaf("classification-parent", "Direct parent", "directParent"),
					leaf("classification-kingdom", "Kingdom", "kingdom"),
				),
			),
			group("pharmacology", "Pharmacology",
				leaf("pharmacology-indication", "Indication", "indication"),
				leaf("pharmacology-pharmacodynamics", "Pharmacodynamics", "pharmacodynamics"),
				leaf("pharmacology-mechanism", "Mechanism of action", "mechanismOfAction"),
				array("pharmacology-targets", "Targets", limit(8), "targets"),
			),
			group("adme", "ADME",
				leaf("adme-absorption", "Absorption", "absorption"),
				leaf("adme-half-life", "Half-life", "halfLife"),
				leaf("adme-protein-binding", "Protein binding", "proteinBinding"),
				leaf("adme-metabolism", "Metabolism", "metabolism"),
				leaf("adme-elimination", "Route of elimination", "routeOfElimination"),
				leaf("adme-distribution", "Volume of distribution", "volumeOfDistribution"),
				leaf("adme-clearance", "Clearance", "clearance"),
			),
			group("regulatory", "Regulatory & market",
				array("regulatory-markets", "Markets", limit(20), "markets"),
				array("regulatory-patents", "Patents", limit(5), "patents"),
				array("regulatory-atc", "ATC codes", limit(8), "atcCodes"),
			),
			group("supply", "Suppliers & manufacturing",
				array("supply-manufacturers", "Manufacturers", limit(10), "manufacturers"),
				array("supply-packagers", "Packagers", limit(10), "packagers"),
				array("supply-dosages", "Dosage forms", limit(10), "dosages"),
			),
			group("safety", "Safety",
				leaf("safety-toxicity", "Toxicity", "toxicity"),
				array("safety-food", "Food interactions", limit(6), "foodInteractions"),
			),
		},
	}
}

func group(id, label string, children ...*Node) *Node {
	return &Node{Id: id, Label: label, Type: TypeGroup, Children: children}
}

func boundGroup(id, label, path string, children ...*Node) *Node {
	return &Node{Id: id, Label: label, Type: TypeGroup, DataPath: []string{path}, Children: children}
}

func leaf(id, label string, path ...string) *Node {
	return &Node{Id: id, Label: label, Type: TypeLeaf, DataPath: path}
}

func array(id, label string, max *int, path ...string) *Node {
	return &Node{Id: id, Label: label, Type: TypeArray, DataPath: path, Limit: max}
}

func limit(n int) *int {
	return &n
}
