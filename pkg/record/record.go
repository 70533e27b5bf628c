package record

import "sync"

// Record is one normalized API (active pharmaceutical ingredient) entry as
// produced by the external extractor. Every scalar is nullable; collections
// are ordered and may be empty. Records are read-only once loaded into a
// Store.
type Record struct {
	Id          string  `json:"drugbankId"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	CasNumber    *string `json:"casNumber,omitempty"`
	Unii         *string `json:"unii,omitempty"`
	MoleculeType *string `json:"moleculeType,omitempty"`
	State        *string `json:"state,omitempty"`

	MolecularFormula *string  `json:"molecularFormula,omitempty"`
	AverageMass      *float64 `json:"averageMass,omitempty"`
	MonoisotopicMass *float64 `json:"monoisotopicMass,omitempty"`
	LogP             *string  `json:"logP,omitempty"`
	WaterSolubility  *string  `json:"waterSolubility,omitempty"`
	MeltingPoint     *string  `json:"meltingPoint,omitempty"`

	Indication           *string `json:"indication,omitempty"`
	Pharmacodynamics     *string `json:"pharmacodynamics,omitempty"`
	MechanismOfAction    *string `json:"mechanismOfAction,omitempty"`
	Toxicity             *string `json:"toxicity,omitempty"`
	Absorption           *string `json:"absorption,omitempty"`
	HalfLife             *string `json:"halfLife,omitempty"`
	ProteinBinding       *string `json:"proteinBinding,omitempty"`
	Metabolism           *string `json:"metabolism,omitempty"`
	RouteOfElimination   *string `json:"routeOfElimination,omitempty"`
	VolumeOfDistribution *string `json:"volumeOfDistribution,omitempty"`
	Clearance            *string `json:"clearance,omitempty"`
	SynthesisReference   *string `json:"synthesisReference,omitempty"`

	Groups              []string `json:"groups,omitempty"`
	Categories          []string `json:"categories,omitempty"`
	Synonyms            []string `json:"synonyms,omitempty"`
	InternationalBrands []string `json:"internationalBrands,omitempty"`
	FoodInteractions    []string `json:"foodInteractions,omitempty"`
	Packagers           []string `json:"packagers,omitempty"`
	Manufacturers       []string `json:"manufacturers,omitempty"`

	Classification      *Classification      `json:"classification,omitempty"`
	Products            []Product            `json:"products,omitempty"`
	Patents             []Patent             `json:"patents,omitempty"`
	Targets             []Target             `json:"targets,omitempty"`
	Dosages             []Dosage             `json:"dosages,omitempty"`
	AtcCodes            []ATCCode            `json:"atcCodes,omitempty"`
	ExternalIdentifiers []ExternalIdentifier `json:"externalIdentifiers,omitempty"`

	valuesOnce sync.Once
	values     map[string]any
}

type Classification struct {
	Description        *string  `json:"description,omitempty"`
	DirectParent       *string  `json:"directParent,omitempty"`
	Kingdom            *string  `json:"kingdom,omitempty"`
	Superclass         *string  `json:"superclass,omitempty"`
	ClassName          *string  `json:"className,omitempty"`
	Subclass           *string  `json:"subclass,omitempty"`
	AlternativeParents []string `json:"alternativeParents,omitempty"`
	Substituents       []string `json:"substituents,omitempty"`
}

type Product struct {
	Brand          *string `json:"brand,omitempty"`
	Country        *string `json:"country,omitempty"`
	DosageForm     *string `json:"dosageForm,omitempty"`
	Strength       *string `json:"strength,omitempty"`
	Route          *string `json:"route,omitempty"`
	Generic        *bool   `json:"generic,omitempty"`
	OverTheCounter *bool   `json:"overTheCounter,omitempty"`
	Approved       *bool   `json:"approved,omitempty"`
}

type Patent struct {
	Number             *string `json:"number,omitempty"`
	Country            *string `json:"country,omitempty"`
	ApprovedDate       *string `json:"approvedDate,omitempty"`
	ExpiresDate        *string `json:"expiresDate,omitempty"`
	PediatricExtension *bool   `json:"pediatricExtension,omitempty"`
}

type Target struct {
	Id       *string  `json:"id,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Organism *string  `json:"organism,omitempty"`
	Actions  []string `json:"actions,omitempty"`
}

type Dosage struct {
	Form     *string `json:"form,omitempty"`
	Route    *string `json:"route,omitempty"`
	Strength *string `json:"strength,omitempty"`
}

type ATCCode struct {
	Code   *string    `json:"code,omitempty"`
	Levels []ATCLevel `json:"levels,omitempty"`
}

type ATCLevel struct {
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ExternalIdentifier struct {
	Resource   *string `json:"resource,omitempty"`
	Identifier *string `json:"identifier,omitempty"`
}

// DisplayName returns the record name, falling back to the id.
func (r *Record) DisplayName() string {
	if r.Name != nil && *r.Name != "" {
		return *r.Name
	}
	return r.Id
}

// BrandNames merges international brands with product brands, preserving
// first-seen order and dropping duplicates.
func (r *Record) BrandNames() []string {
	seen := make(map[string]struct{})
	var brands []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		brands = append(brands, name)
	}
	for _, brand := range r.InternationalBrands {
		add(brand)
	}
	for _, product := range r.Products {
		if product.Brand != nil {
			add(*product.Brand)
		}
	}
	return brands
}

// Markets returns the unique product countries in first-seen order.
func (r *Record) Markets() []string {
	seen := make(map[string]struct{})
	var markets []string
	for _, product := range r.Products {
		if product.Country == nil || *product.Country == "" {
			continue
		}
		if _, ok := seen[*product.Country]; ok {
			continue
		}
		seen[*product.Country] = struct{}{}
		markets = append(markets, *product.Country)
	}
	return markets
}
