package safety

// ConditionType identifies the kind of health condition attached to a person.
type ConditionType string

const (
	ConditionAllergy      ConditionType = "allergy"
	ConditionDiabetes     ConditionType = "diabetes"
	ConditionHeart        ConditionType = "heart"
	ConditionHypertension ConditionType = "hypertension"
	ConditionOther        ConditionType = "other"
)

// Severity is the concern tier carried by an emitted warning.
// SeverityLow is reserved and currently never emitted.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// DefaultHighRatio is the multiplier applied to a rule's medium
// threshold to obtain its high threshold when the rule does not
// configure its own ratio.
const DefaultHighRatio = 1.5

// Rule describes how one condition type inspects a product's nutrients.
type Rule struct {
	// NutrientKey is the key looked up in Product.Nutrients, e.g. "sugars_100g".
	NutrientKey string
	// MediumThreshold is the value above which (strictly) a medium warning fires.
	MediumThreshold float64
	// HighRatio scales MediumThreshold into the high threshold. Zero means DefaultHighRatio.
	HighRatio float64
	// Focus is the phrase naming what the rule measures, e.g. "sugar content".
	Focus string
}

// HighThreshold returns the value at or above which a high warning fires.
func (r Rule) HighThreshold() float64 {
	ratio := r.HighRatio
	if ratio == 0 {
		ratio = DefaultHighRatio
	}
	return r.MediumThreshold * ratio
}

// Registry is the immutable table of nutrient rules keyed by condition
// type. Allergy conditions are matched structurally against the
// product's allergen set and have no entry here.
type Registry struct {
	rules map[ConditionType]Rule
}

// NewRegistry builds a registry from the given rule table. The table is
// copied; the registry never changes after construction.
func NewRegistry(rules map[ConditionType]Rule) *Registry {
	copied := make(map[ConditionType]Rule, len(rules))
	for t, r := range rules {
		copied[t] = r
	}
	return &Registry{rules: copied}
}

// DefaultRegistry returns the registry with the standard rule set.
func DefaultRegistry() *Registry {
	return NewRegistry(map[ConditionType]Rule{
		ConditionDiabetes: {
			NutrientKey:     "sugars_100g",
			MediumThreshold: 10,
			Focus:           "sugar content",
		},
		ConditionHeart: {
			NutrientKey:     "saturated-fat_100g",
			MediumThreshold: 5,
			Focus:           "saturated fat",
		},
		ConditionHypertension: {
			NutrientKey:     "salt_100g",
			MediumThreshold: 1.5,
			Focus:           "salt content",
		},
	})
}

// Rule looks up the nutrient rule for a condition type. The second
// return value is false for allergy and for any unknown type.
func (reg *Registry) Rule(t ConditionType) (Rule, bool) {
	r, ok := reg.rules[t]
	return r, ok
}
